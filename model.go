package boilerscore

// DefaultDocumentArea is the viewport area assumed when none is configured.
const DefaultDocumentArea = 1500 * 2000

// DocumentInfo holds the document-wide aggregates blocks are scored against.
type DocumentInfo struct {
	TextLength   int
	ElementCount int

	// Blocks with an element index below FrontIndexMax or above EndIndexMin
	// sit in the head or tail of the document.
	FrontIndexMax int
	EndIndexMin   int

	Area int
}

// NewDocumentInfo derives the head and tail boundaries from tailSize, the
// fraction of elements at each end of the document that are penalised.
func NewDocumentInfo(textLength, elementCount int, tailSize float64, area int) DocumentInfo {
	front := int(float64(elementCount) * tailSize)
	if area <= 0 {
		area = DefaultDocumentArea
	}
	return DocumentInfo{
		TextLength:    textLength,
		ElementCount:  elementCount,
		FrontIndexMax: front,
		EndIndexMin:   elementCount - front,
		Area:          area,
	}
}

// A Model scores a single block. Implementations must be pure and return a
// value in [MinScore, MaxScore].
type Model interface {
	Score(b *Block, info DocumentInfo) int
}

// ModelFunc adapts an ordinary function to the Model interface.
type ModelFunc func(b *Block, info DocumentInfo) int

func (fn ModelFunc) Score(b *Block, info DocumentInfo) int { return fn(b, info) }

// DefaultModel sums independent bias terms onto NeutralScore.
type DefaultModel struct {
	TypeBias  map[string]int
	TokenBias map[string]int
}

// Statically check that *DefaultModel satisfies the Model interface.
var _ Model = (*DefaultModel)(nil)

// NewDefaultModel returns a model using the built in bias tables.
func NewDefaultModel() *DefaultModel {
	return &DefaultModel{
		TypeBias:  TypeBias,
		TokenBias: TokenBias,
	}
}

func (m *DefaultModel) Score(b *Block, info DocumentInfo) int {
	score := NeutralScore
	score += depthBias(b.Depth)
	score += m.TypeBias[b.ElementType]
	score += textBias(b.TextLength, info.TextLength)
	score += lineDensityBias(b.TextLength, b.LineCount)
	score += anchorDensityBias(b.AnchorTextLength, b.TextLength)
	score += listBias(b.ElementType, b.ListItemCount)
	score += paragraphBias(b.ParagraphCount)
	score += fieldBias(b.FieldCount)
	score += imageBias(b.ImageArea, info.Area)
	score += positionBias(b.ElementIndex, info)
	score += m.tokenBias(b.AttributeTokens)
	return clampInt(score, MinScore, MaxScore)
}

// TypeBias weights blocks by element type. Types not listed score 0.
var TypeBias = map[string]int{
	"address":    -3,
	"article":    20,
	"aside":      -5,
	"blockquote": 5,
	"code":       10,
	"dl":         -2,
	"figure":     5,
	"footer":     -10,
	"form":       -10,
	"header":     -5,
	"main":       20,
	"menu":       -10,
	"nav":        -20,
	"ol":         -2,
	"picture":    5,
	"pre":        5,
	"section":    5,
	"td":         3,
	"th":         -3,
	"tr":         1,
	"ul":         -2,
}

// TokenBias weights blocks by the tokens of their id, class, name, itemprop
// and role attributes.
var TokenBias = map[string]int{
	"ad":              -50,
	"ads":             -50,
	"advert":          -50,
	"article":         30,
	"body":            20,
	"bodytext":        20,
	"bottom":          -10,
	"carousel":        -10,
	"col":             -5,
	"colm":            -5,
	"comment":         -40,
	"comments":        -40,
	"contact":         -10,
	"content":         20,
	"contentpane":     50,
	"cookie":          -10,
	"copyright":       -10,
	"credit":          -2,
	"date":            -2,
	"details":         20,
	"disqus":          -40,
	"dsq":             -30,
	"entry":           10,
	"fb":              -5,
	"figure":          10,
	"fn":              -30,
	"footer":          -40,
	"google":          -10,
	"header":          -10,
	"hidden":          -30,
	"left":            -20,
	"like":            -10,
	"link":            -10,
	"links":           -10,
	"logo":            -50,
	"main":            30,
	"mainbody":        50,
	"mainbodyarea":    50,
	"menu":            -10,
	"more":            -15,
	"nav":             -20,
	"navbar":          -20,
	"newsarticlebody": 50,
	"newscontent":     50,
	"newsletter":      -20,
	"page":            10,
	"popular":         -30,
	"post":            10,
	"primary":         10,
	"promo":           -50,
	"promotions":      -50,
	"rail":            -50,
	"recirculation":   -20,
	"recommend":       -10,
	"recommended":     -10,
	"register":        -30,
	"related":         -50,
	"right":           -50,
	"rightcolumn":     -20,
	"rss":             -30,
	"share":           -20,
	"shop":            -10,
	"side":            -5,
	"sidebar":         -20,
	"social":          -40,
	"sponsored":       -30,
	"story":           50,
	"storytext":       50,
	"subscribe":       -30,
	"summary":         10,
	"tag":             -15,
	"tags":            -20,
	"text":            20,
	"time":            -2,
	"timestamp":       -5,
	"tool":            -30,
	"twitter":         -30,
	"txt":             50,
	"utility":         -50,
	"vcard":           -10,
	"week":            -5,
	"widget":          -20,
	"zone":            -20,
}

func depthBias(depth int) int {
	return clampInt(-4*depth+10, -5, 5)
}

func textBias(textLength, documentTextLength int) int {
	if textLength == 0 || documentTextLength == 0 {
		return 0
	}
	return min(5, 500*textLength/documentTextLength)
}

func lineDensityBias(textLength, lineCount int) int {
	if lineCount <= 0 {
		return 0
	}
	density := float64(textLength) / float64(lineCount)
	switch {
	case density > 100:
		return 5
	case density > 50:
		return 0
	case density > 20:
		return -1
	case density > 1:
		return -5
	}
	return 0
}

func anchorDensityBias(anchorTextLength, textLength int) int {
	if textLength == 0 {
		return 0
	}
	density := float64(anchorTextLength) / float64(textLength)
	switch {
	case density > 0.9:
		return -40
	case density > 0.5:
		return -20
	case density > 0.25:
		return -5
	}
	return 0
}

func listBias(elementType string, listItemCount int) int {
	switch elementType {
	case "ol", "ul", "dl":
		return 0
	}
	return max(-5, -listItemCount)
}

func paragraphBias(paragraphCount int) int {
	return min(20, 5*paragraphCount)
}

func fieldBias(fieldCount int) int {
	if fieldCount > 0 && fieldCount < 10 {
		return -10
	}
	return 0
}

func imageBias(imageArea, documentArea int) int {
	if imageArea <= 0 || documentArea <= 0 {
		return 0
	}
	return min(70, 70*imageArea/documentArea)
}

func positionBias(elementIndex int, info DocumentInfo) int {
	if elementIndex < info.FrontIndexMax || elementIndex > info.EndIndexMin {
		return -5
	}
	return 0
}

func (m *DefaultModel) tokenBias(tokens map[string]bool) int {
	bias := 0
	for tok := range tokens {
		bias += m.TokenBias[tok]
	}
	return bias
}
