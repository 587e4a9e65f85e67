package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tokenmeta/internal/keycodec"
)

// KeyOptions holds flags for the key command.
type KeyOptions struct {
	*RootOptions
	Decode bool
	List   bool
}

// KeyInfo describes one key in both forms.
type KeyInfo struct {
	Key        string `json:"key"`
	Hex        string `json:"hex"`
	Recognized bool   `json:"recognized"`
}

// NewKeyCommand creates the key command.
func NewKeyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KeyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "key <string>...",
		Short: "Show the 32-byte form of metadata keys",
		Long: `Convert key strings to their zero-padded 32-byte form, or back
with --decode. --list prints the document vocabulary.

Examples:
  tokenmeta key name trait_type
  tokenmeta key --decode 0x6e616d6500000000000000000000000000000000000000000000000000000000
  tokenmeta key --list`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKey(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Decode, "decode", false, "treat arguments as hex and print the key strings")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list the recognized keys")
	cmd.MarkFlagsMutuallyExclusive("decode", "list")

	return cmd
}

func runKey(opts *KeyOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	var keys []keycodec.Key
	switch {
	case opts.List:
		keys = keycodec.Vocabulary()
	case len(args) == 0:
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "requires at least 1 arg", nil, nil)
	default:
		for _, arg := range args {
			var k keycodec.Key
			var err error
			if opts.Decode {
				k, err = keycodec.FromHex(arg)
			} else {
				k, err = keycodec.FromString(arg)
			}
			if err != nil {
				return formatter.Fail(ExitFailure, ErrCodeInvalidKey, "invalid key", err, map[string]string{"input": arg})
			}
			keys = append(keys, k)
		}
	}

	infos := make([]KeyInfo, 0, len(keys))
	for _, k := range keys {
		infos = append(infos, KeyInfo{Key: k.String(), Hex: k.Hex(), Recognized: keycodec.Recognized(k)})
	}

	if formatter.IsJSON() {
		return formatter.Success(infos)
	}

	var b strings.Builder
	for i, info := range infos {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s\t%s", info.Hex, info.Key)
		if !info.Recognized {
			b.WriteString("\t(unrecognized)")
		}
	}
	return formatter.Success(b.String())
}
