package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tokenmeta/internal/document"
)

// DecodeResult is the JSON payload of a successful decode.
type DecodeResult struct {
	JSON string `json:"json"`
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <uri|->",
		Short: "Print the JSON inside a document URI",
		Long: `Decode a data URI produced by render and print its JSON payload.

Pass - to read the URI from standard input.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runDecode(opts *RootOptions, uri string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if uri == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeReadFailed, "failed to read stdin", err, nil)
		}
		uri = string(data)
	}

	text, err := document.DecodeURI(strings.TrimSpace(uri))
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidURI, "invalid document URI", err, nil)
	}

	if formatter.IsJSON() {
		return formatter.Success(DecodeResult{JSON: text})
	}
	return formatter.Success(text)
}
