package tex

// class is the TeX atom class that drives inter-atom spacing.
type class uint8

const (
	classOrd class = iota
	classOp
	classBin
	classRel
	classOpen
	classClose
	classPunct
	classInner
)

// fontKind selects one of the typesetter's fonts.
type fontKind uint8

const (
	fontUpright fontKind = iota
	fontItalic
	fontBold
)

// symbol is a named math character. fallback is drawn when the font has
// no glyph for r.
type symbol struct {
	r        rune
	fallback rune
	class    class
	font     fontKind
	large    bool
}

// symbols maps control words to characters. Lowercase Greek is italic as
// in plain TeX, uppercase Greek is upright.
var symbols = map[string]symbol{
	"alpha":      {r: 'α', font: fontItalic},
	"beta":       {r: 'β', font: fontItalic},
	"gamma":      {r: 'γ', font: fontItalic},
	"delta":      {r: 'δ', font: fontItalic},
	"epsilon":    {r: 'ϵ', fallback: 'ε', font: fontItalic},
	"varepsilon": {r: 'ε', font: fontItalic},
	"zeta":       {r: 'ζ', font: fontItalic},
	"eta":        {r: 'η', font: fontItalic},
	"theta":      {r: 'θ', font: fontItalic},
	"vartheta":   {r: 'ϑ', fallback: 'θ', font: fontItalic},
	"iota":       {r: 'ι', font: fontItalic},
	"kappa":      {r: 'κ', font: fontItalic},
	"lambda":     {r: 'λ', font: fontItalic},
	"mu":         {r: 'μ', font: fontItalic},
	"nu":         {r: 'ν', font: fontItalic},
	"xi":         {r: 'ξ', font: fontItalic},
	"pi":         {r: 'π', font: fontItalic},
	"rho":        {r: 'ρ', font: fontItalic},
	"sigma":      {r: 'σ', font: fontItalic},
	"tau":        {r: 'τ', font: fontItalic},
	"upsilon":    {r: 'υ', font: fontItalic},
	"phi":        {r: 'ϕ', fallback: 'φ', font: fontItalic},
	"varphi":     {r: 'φ', font: fontItalic},
	"chi":        {r: 'χ', font: fontItalic},
	"psi":        {r: 'ψ', font: fontItalic},
	"omega":      {r: 'ω', font: fontItalic},
	"Gamma":      {r: 'Γ'},
	"Delta":      {r: 'Δ'},
	"Theta":      {r: 'Θ'},
	"Lambda":     {r: 'Λ'},
	"Xi":         {r: 'Ξ'},
	"Pi":         {r: 'Π'},
	"Sigma":      {r: 'Σ'},
	"Upsilon":    {r: 'Υ'},
	"Phi":        {r: 'Φ'},
	"Psi":        {r: 'Ψ'},
	"Omega":      {r: 'Ω'},

	"pm":     {r: '±', class: classBin},
	"mp":     {r: '∓', fallback: '±', class: classBin},
	"times":  {r: '×', class: classBin},
	"div":    {r: '÷', class: classBin},
	"cdot":   {r: '·', class: classBin},
	"ast":    {r: '∗', fallback: '*', class: classBin},
	"circ":   {r: '∘', fallback: '°', class: classBin},
	"bullet": {r: '•', class: classBin},
	"cap":    {r: '∩', class: classBin},
	"cup":    {r: '∪', fallback: 'U', class: classBin},

	"leq":        {r: '≤', class: classRel},
	"le":         {r: '≤', class: classRel},
	"geq":        {r: '≥', class: classRel},
	"ge":         {r: '≥', class: classRel},
	"neq":        {r: '≠', class: classRel},
	"ne":         {r: '≠', class: classRel},
	"approx":     {r: '≈', class: classRel},
	"equiv":      {r: '≡', class: classRel},
	"sim":        {r: '∼', fallback: '~', class: classRel},
	"propto":     {r: '∝', class: classRel},
	"in":         {r: '∈', fallback: 'ε', class: classRel},
	"to":         {r: '→', class: classRel},
	"rightarrow": {r: '→', class: classRel},
	"leftarrow":  {r: '←', class: classRel},
	"gets":       {r: '←', class: classRel},
	"Rightarrow": {r: '⇒', fallback: '→', class: classRel},
	"implies":    {r: '⇒', fallback: '→', class: classRel},
	"iff":        {r: '⇔', fallback: '↔', class: classRel},
	"mapsto":     {r: '↦', fallback: '→', class: classRel},
	"parallel":   {r: '∥', fallback: '‖', class: classRel},
	"perp":       {r: '⊥', fallback: '┴', class: classRel},

	"infty":    {r: '∞'},
	"partial":  {r: '∂'},
	"nabla":    {r: '∇', fallback: '∆'},
	"prime":    {r: '′', fallback: '\''},
	"ldots":    {r: '…', class: classInner},
	"dots":     {r: '…', class: classInner},
	"cdots":    {r: '⋯', fallback: '…', class: classInner},
	"forall":   {r: '∀', fallback: 'A'},
	"exists":   {r: '∃', fallback: 'E'},
	"emptyset": {r: '∅', fallback: 'Ø'},
	"neg":      {r: '¬'},
	"angle":    {r: '∠', fallback: '∟'},
	"degree":   {r: '°'},

	"sum":  {r: '∑', class: classOp, large: true},
	"prod": {r: '∏', class: classOp, large: true},
	"int":  {r: '∫', class: classOp, large: true},

	"langle": {r: '⟨', fallback: '<', class: classOpen},
	"rangle": {r: '⟩', fallback: '>', class: classClose},
	"lbrace": {r: '{', class: classOpen},
	"rbrace": {r: '}', class: classClose},
	"lvert":  {r: '|', class: classOpen},
	"rvert":  {r: '|', class: classClose},
	"vert":   {r: '|'},
	"Vert":   {r: '‖'},
	"|":      {r: '‖'},
	"{":      {r: '{', class: classOpen},
	"}":      {r: '}', class: classClose},

	"%": {r: '%'},
	"$": {r: '$'},
	"&": {r: '&'},
	"#": {r: '#'},
	"_": {r: '_'},
}

// functions are operator names set upright with op spacing.
var functions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"arcsin": true, "arccos": true, "arctan": true,
	"sinh": true, "cosh": true, "tanh": true,
	"log": true, "ln": true, "exp": true, "lim": true,
	"max": true, "min": true, "det": true, "gcd": true,
}

// spaces are explicit spacing commands, in mu (1/18 em).
var spaces = map[string]float64{
	",":     3,
	":":     4,
	">":     4,
	";":     5,
	"!":     -3,
	" ":     6,
	"quad":  18,
	"qquad": 36,
}

// charClass returns the class of a literal math character.
func charClass(r rune) class {
	switch r {
	case '+', '-', '*', '−':
		return classBin
	case '=', '<', '>', ':':
		return classRel
	case '(', '[':
		return classOpen
	case ')', ']':
		return classClose
	case ',', ';':
		return classPunct
	default:
		return classOrd
	}
}

// mathRune maps source characters to the character drawn in math mode.
func mathRune(r rune) rune {
	switch r {
	case '-':
		return '−'
	case '*':
		return '∗'
	default:
		return r
	}
}

// mathFont returns the font of a literal math character: Latin letters are
// italic, everything else is upright.
func mathFont(r rune) fontKind {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return fontItalic
	}
	if r >= 'α' && r <= 'ω' {
		return fontItalic
	}
	return fontUpright
}

// Spacing between adjacent atoms, in mu, indexed [left][right]. Negative
// entries apply only outside script styles.
var spacing = [8][8]int8{
	classOrd:   {0, 3, -4, -5, 0, 0, 0, -3},
	classOp:    {3, 3, 0, -5, 0, 0, 0, -3},
	classBin:   {-4, -4, 0, 0, -4, 0, 0, -4},
	classRel:   {-5, -5, 0, 0, -5, 0, 0, -5},
	classOpen:  {0, 0, 0, 0, 0, 0, 0, 0},
	classClose: {0, 3, -4, -5, 0, 0, 0, -3},
	classPunct: {-3, -3, 0, -3, -3, -3, -3, -3},
	classInner: {-3, 3, -4, -5, -3, 0, -3, -3},
}

// spaceBetween returns the glue between atoms of classes l and r in mu.
func spaceBetween(l, r class, script bool) float64 {
	v := spacing[l][r]
	if v < 0 {
		if script {
			return 0
		}
		v = -v
	}
	return float64(v)
}
