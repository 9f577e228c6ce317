package mathscroll

import "fmt"

// TexOption configures the Tex helpers.
type TexOption func(*texOptions)

type texOptions struct {
	label       string
	scale       float64
	color       *RGBA
	colorMap    ColorMap
	environment string
	annotation  []AnnotationOption
}

// TexLabel sets the label the item is registered under.
func TexLabel(label string) TexOption {
	return func(o *texOptions) { o.label = label }
}

// TexScale overrides the manager's scale for this expression.
func TexScale(s float64) TexOption {
	return func(o *texOptions) { o.scale = s }
}

// TexColor paints the whole expression before the color map is applied.
func TexColor(c RGBA) TexOption {
	return func(o *texOptions) { o.color = &c }
}

// TexColorMap adds per-fragment colors on top of the manager's color map.
func TexColorMap(cm ColorMap) TexOption {
	return func(o *texOptions) { o.colorMap = cm }
}

// TexEnvironment wraps the source in a named environment.
func TexEnvironment(env string) TexOption {
	return func(o *texOptions) { o.environment = env }
}

// TexAnnotation forwards options to AddAnnotations for
// CreateAnnotatedEquation.
func TexAnnotation(opts ...AnnotationOption) TexOption {
	return func(o *texOptions) { o.annotation = append(o.annotation, opts...) }
}

// CreateTex typesets a text-mode caption.
func (m *ScrollManager) CreateTex(source string, opts ...TexOption) (LabeledItem, error) {
	return m.createTex(source, ModeText, opts)
}

// CreateMathTex typesets an equation.
func (m *ScrollManager) CreateMathTex(source string, opts ...TexOption) (LabeledItem, error) {
	return m.createTex(source, ModeMath, opts)
}

func (m *ScrollManager) createTex(source string, mode Mode, opts []TexOption) (LabeledItem, error) {
	o := m.texOptions(opts)
	expr, err := m.typeset(source, mode, o)
	if err != nil {
		return LabeledItem{}, err
	}
	return WithLabel(expr, o.label), nil
}

// CreateAnnotatedEquation typesets an equation and annotates the terms
// matching from and to with annotation. Unlike color-map misses, a term
// that cannot be found is an error.
func (m *ScrollManager) CreateAnnotatedEquation(source, annotation, from, to string, opts ...TexOption) (LabeledItem, error) {
	o := m.texOptions(opts)
	expr, err := m.typeset(source, ModeMath, o)
	if err != nil {
		return LabeledItem{}, err
	}
	fromEl, err := m.locator.FindElement(expr, from)
	if err != nil {
		return LabeledItem{}, fmt.Errorf("mathscroll: annotation from-term: %w", err)
	}
	toEl, err := m.locator.FindElement(expr, to)
	if err != nil {
		return LabeledItem{}, fmt.Errorf("mathscroll: annotation to-term: %w", err)
	}
	overlay, err := AddAnnotations(m.ts, annotation, fromEl, toEl, o.annotation...)
	if err != nil {
		return LabeledItem{}, err
	}
	return WithLabel(&AnnotatedEquation{Base: expr, Overlay: overlay}, o.label), nil
}

func (m *ScrollManager) texOptions(opts []TexOption) texOptions {
	o := texOptions{scale: m.opts.scale}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (m *ScrollManager) typeset(source string, mode Mode, o texOptions) (*Expression, error) {
	if m.ts == nil {
		return nil, ErrNoTypesetter
	}
	tmpl := Template{Mode: mode, Environment: o.environment, Scale: o.scale}
	expr, err := m.ts.Typeset(source, tmpl)
	if err != nil {
		return nil, fmt.Errorf("mathscroll: typeset %q: %w", source, err)
	}
	if o.color != nil {
		expr.SetColor(*o.color)
	}
	cm := m.opts.colorMap.Merge(o.colorMap)
	if len(cm) > 0 {
		if err := m.locator.ApplyColorMap(expr, cm); err != nil {
			return nil, err
		}
	}
	return expr, nil
}
