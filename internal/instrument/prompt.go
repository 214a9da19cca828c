package instrument

// PromptFunc renders the prompt text for one interactive turn.
type PromptFunc func() string

// PromptMiddleware wraps the prompt render path. Middlewares carry a name
// so installing the same middleware twice replaces it instead of nesting
// it inside itself.
type PromptMiddleware struct {
	Name string
	Wrap func(next PromptFunc) PromptFunc
}

// PromptChain is an explicit, ordered list of prompt middlewares
// terminating at a base renderer. Rendering composes the chain so every
// middleware calls the next renderer exactly once.
type PromptChain struct {
	base        PromptFunc
	middlewares []PromptMiddleware
}

// NewPromptChain creates a chain around the given base renderer.
func NewPromptChain(base PromptFunc) *PromptChain {
	if base == nil {
		base = func() string { return "" }
	}
	return &PromptChain{base: base}
}

// Use installs a middleware. A middleware whose name is already present is
// replaced in place, keeping its position in the chain.
func (c *PromptChain) Use(m PromptMiddleware) {
	for i, existing := range c.middlewares {
		if existing.Name == m.Name {
			c.middlewares[i] = m
			return
		}
	}
	c.middlewares = append(c.middlewares, m)
}

// SetBase re-points the terminal renderer. This is the refresh path for
// prompt themes that install themselves after the chain is already built:
// the theme becomes the new delegate and no middleware gets wrapped twice.
func (c *PromptChain) SetBase(base PromptFunc) {
	if base != nil {
		c.base = base
	}
}

// Len returns the number of installed middlewares.
func (c *PromptChain) Len() int {
	return len(c.middlewares)
}

// Render runs the chain and returns the prompt text. The first installed
// middleware runs outermost.
func (c *PromptChain) Render() string {
	next := c.base
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		next = c.middlewares[i].Wrap(next)
	}
	return next()
}
