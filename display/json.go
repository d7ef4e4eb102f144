package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/teranos/labelgate/errors"
)

// OutputEnv selects JSON output without a flag (LABELGATE_OUTPUT=json)
const OutputEnv = "LABELGATE_OUTPUT"

// ShouldOutputJSON determines if a command should output JSON based on
// the --json flag, falling back to LABELGATE_OUTPUT
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd != nil {
		if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
			v, _ := cmd.Flags().GetBool("json")
			return v
		}
		if globalFlag, err := cmd.Root().PersistentFlags().GetBool("json"); err == nil && globalFlag {
			return true
		}
	}
	return os.Getenv(OutputEnv) == "json"
}

// MarshalJSON marshals with indentation for human-readable output
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// OutputJSON marshals and prints JSON to stdout
func OutputJSON(v interface{}) error {
	return WriteJSON(os.Stdout, v)
}

// WriteJSON marshals v with MarshalJSON and writes it to w
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
