package roi

import (
	"fmt"
	"io"
)

// SetDebugMode enables or disables [roi] diagnostics: gesture transitions,
// discarded boxes and label layout passes.
func (o *Overlay) SetDebugMode(enabled bool) {
	o.debug = enabled
}

// SetDebugOutput redirects diagnostics. The default is stderr.
func (o *Overlay) SetDebugOutput(w io.Writer) {
	o.debugOut = w
}

// debugf writes one diagnostic line when debug mode is on.
func (o *Overlay) debugf(format string, args ...any) {
	if !o.debug || o.debugOut == nil {
		return
	}
	_, _ = fmt.Fprintf(o.debugOut, "[roi] "+format+"\n", args...)
}
