package output

import (
	"fmt"
	"io"
)

// Error outputs an error in the appropriate format. In text mode err is
// returned for the caller to print.
func (f *Formatter) Error(err error) error {
	switch f.format {
	case FormatJSON:
		return f.JSON(NewError(err.Error()))
	case FormatYAML:
		return f.YAML(NewError(err.Error()))
	}
	return err
}

// PrintError writes err to w, as an error envelope for the structured
// formats and as a plain "Error:" line otherwise.
func PrintError(w io.Writer, err error, format Format) {
	if format == FormatJSON || format == FormatYAML {
		_ = New(WithFormat(format), WithWriter(w)).Error(err)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
