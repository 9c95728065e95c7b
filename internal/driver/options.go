// Package driver wires the lexer, parser and interpreter into the
// operations the CLI exposes: tokenize, parse, check and run, for one script
// or a parallel batch.
package driver

import (
	"io"
	"time"

	"nfscript/internal/trace"
)

// Options configure every driver entry point. Zero values pick defaults.
type Options struct {
	MaxDiagnostics int
	Timeout        time.Duration
	MaxCallDepth   int
	Stdout         io.Writer   // echo output of single runs
	Tracer         trace.Tracer
	Cache          *TokenCache // nil disables the token cache
	NoNormalize    bool        // skip NFC normalization in the lexer
}

func (o Options) tracer() trace.Tracer {
	if o.Tracer == nil {
		return trace.Nop
	}
	return o.Tracer
}
