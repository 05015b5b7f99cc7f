package docfold

import (
	"github.com/docfold/docfold/backend"
	"github.com/docfold/docfold/render"
	"github.com/docfold/docfold/resolver"
)

// ConvertOptions holds the full configuration for a conversion: backend
// parse settings, caption resolution, and rendering.
type ConvertOptions struct {
	parse    backend.ParseOptions
	caption  resolver.Config
	markdown render.MarkdownOptions

	// resolveTitles can be switched off to skip title resolution entirely.
	resolveTitles bool
}

// defaultOptions returns the default conversion options.
func defaultOptions() ConvertOptions {
	return ConvertOptions{
		parse:         backend.DefaultParseOptions(),
		caption:       resolver.DefaultConfig(),
		markdown:      render.DefaultMarkdownOptions(),
		resolveTitles: true,
	}
}

// clone creates a deep copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	newOpts := o
	if o.caption.LabelTokens != nil {
		newOpts.caption.LabelTokens = make([]string, len(o.caption.LabelTokens))
		copy(newOpts.caption.LabelTokens, o.caption.LabelTokens)
	}
	return newOpts
}
