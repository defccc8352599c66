// Command cborctl is a small diagnostics CLI over the cbor package: it
// renders CBOR bytes as RFC 8949 §8 diagnostic notation, or re-encodes
// them in canonical (RFC 7049 or RFC 8949) form.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	cbor "github.com/tangle-systems/cbor-core"
)

// CLI defines cborctl's command-line interface.
type CLI struct {
	Diag  DiagCmd  `cmd:"" help:"Render CBOR input as diagnostic notation."`
	Canon CanonCmd `cmd:"" help:"Re-encode CBOR input in canonical form."`
}

// DiagCmd renders each CBOR item in the input stream as diagnostic
// notation, one per line.
type DiagCmd struct {
	Input string `arg:"" optional:"" help:"Hex-encoded CBOR input; reads raw bytes from stdin if omitted."`
}

func (c *DiagCmd) Run() error {
	data, err := readInput(c.Input)
	if err != nil {
		return err
	}
	dec := cbor.NewDecoder(cbor.NewSliceReader(data))
	for {
		s, err := cbor.Diagnose(dec)
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				return nil
			}
			return fmt.Errorf("diagnose: %w", err)
		}
		fmt.Println(s)
	}
}

// CanonCmd re-encodes the input deterministically and prints it as hex.
type CanonCmd struct {
	Input string `arg:"" optional:"" help:"Hex-encoded CBOR input; reads raw bytes from stdin if omitted."`
	RFC   string `short:"r" default:"8949" enum:"7049,8949" help:"Canonicalization rule: 7049 (length-first) or 8949 (lexicographic)."`
}

func (c *CanonCmd) Run() error {
	data, err := readInput(c.Input)
	if err != nil {
		return err
	}
	mode := cbor.CanonicalRFC8949
	if c.RFC == "7049" {
		mode = cbor.CanonicalRFC7049
	}
	dec := cbor.NewDecoder(cbor.NewSliceReader(data))
	v, err := cbor.DecodeValue(dec)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	w := cbor.NewSliceWriter()
	if err := cbor.EncodeCanonical(w, v, mode); err != nil {
		return fmt.Errorf("canonicalize: %w", err)
	}
	fmt.Println(hex.EncodeToString(w.Bytes()))
	return nil
}

func readInput(hexArg string) ([]byte, error) {
	hexArg = strings.TrimSpace(hexArg)
	if hexArg != "" {
		return hex.DecodeString(hexArg)
	}
	return io.ReadAll(os.Stdin)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cborctl"),
		kong.Description("Inspect and canonicalize CBOR (RFC 8949) data."),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
