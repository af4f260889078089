package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"iamkit/internal/invoke"
)

var (
	warnColor  = color.New(color.Bold, color.FgYellow)
	errorColor = color.New(color.FgRed)
)

// paint colors text only for real files; color itself drops the codes when the file is
// not a terminal.
func paint(out io.Writer, c *color.Color, text string) string {
	if _, ok := out.(*os.File); !ok {
		return text
	}
	return c.Sprint(text)
}

func (a *app) confirm(cmd *cobra.Command) invoke.ConfirmFunc {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.ErrOrStderr()
	return func(operation, resource string) bool {
		question := fmt.Sprintf("Run %s", operation)
		if resource != "" {
			question = fmt.Sprintf("Run %s on %q", operation, resource)
		}
		ok, err := promptYesNo(in, out, question+"?")
		return err == nil && ok
	}
}

// promptYesNo asks question on out and reads the answer from in. Anything but y or yes
// is a no.
func promptYesNo(in *bufio.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", paint(out, warnColor, question))
	response, err := in.ReadString('\n')
	if err != nil && response == "" {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
