/*
Package boilerscore classifies the structural regions of an HTML document as
boilerplate or content.

A document is reduced to a slice of blocks, one per block-like element, each
carrying structural features (depth, text and anchor text length, list,
paragraph, field and line counts, image area and attribute tokens). A scoring
model maps every block to an integer score in [0,100], where higher means more
likely to be genuine content, and a final adjustment raises low scores until a
minimum fraction of the document text is classified as content. Scores are
then mapped to a boilerplate category and written back onto the elements so a
sanitizer can decide what to strip.

The classification approach follows the boilerpipe family of algorithms
(https://github.com/kohlschutter/boilerpipe), scoring DOM blocks instead of
flattened text runs.
*/
package boilerscore
