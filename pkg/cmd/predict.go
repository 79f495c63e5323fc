package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nekruzvatanshoev/carprice/pkg/apperrors"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/form"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/predict"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/session"
)

var errBadSet = errors.New("expected name=value")

var (
	PredictCmd = &cobra.Command{
		Use:   PredictCmdName,
		Short: PredictCmdShort,
		Long:  PredictCmdLong,
		Example: `  carprice predict --set Present_Price=5.59 --set Kms_Driven=27000 --set Age=8 --set Fuel_Type=Diesel
  carprice predict --variant extended --interactive`,
		RunE: predictCmdFunc(),
	}
)

func init() {
	flags := PredictCmd.Flags()
	flags.StringArray("set", nil, "field value as name=value; repeatable")
	flags.BoolP("interactive", "i", false, "prompt for fields not given with --set")
	flags.Bool("json", false, "print the form view as JSON")
}

func predictCmdFunc() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		sets, _ := cmd.Flags().GetStringArray("set")
		interactive, _ := cmd.Flags().GetBool("interactive")
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		client, err := predict.New(predict.Options{
			BaseURL: a.cfg.API.BaseURL,
			Path:    a.cfg.API.PredictPath,
			Timeout: a.cfg.API.Timeout,
		})
		if err != nil {
			return err
		}

		sess := session.New(session.Options{Schema: a.schema, Predictor: client, Log: a.log})
		return runPredict(cmd.Context(), predictIO{
			in:          cmd.InOrStdin(),
			out:         cmd.OutOrStdout(),
			interactive: interactive,
			json:        asJSON,
		}, sess, sets)
	}
}

type predictIO struct {
	in          io.Reader
	out         io.Writer
	interactive bool
	json        bool
}

func runPredict(ctx context.Context, pio predictIO, sess *session.Session, sets []string) error {
	given := make(map[string]bool, len(sets))
	for _, set := range sets {
		name, value, ok := strings.Cut(set, "=")
		if !ok {
			return fmt.Errorf("--set %q: %w", set, errBadSet)
		}
		name = strings.TrimSpace(name)
		if err := sess.Update(name, value); err != nil {
			return fmt.Errorf("--set %s: %w", name, err)
		}
		given[name] = true
	}

	if pio.interactive {
		if err := prompt(pio.in, pio.out, sess, given); err != nil {
			return err
		}
	}

	submitErr := sess.Submit(ctx)
	view := sess.View()

	if pio.json {
		enc := json.NewEncoder(pio.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("encode view: %w", err)
		}
		return submitErr
	}

	if submitErr != nil {
		fmt.Fprintln(pio.out, apperrors.UserMessage(submitErr))
		return submitErr
	}

	line := "Estimated price: " + view.Prediction
	if view.Unit != "" {
		line += " " + view.Unit
	}
	fmt.Fprintln(pio.out, line)
	return nil
}

// prompt asks for every field not already given. An empty answer keeps the
// current value; an invalid option is asked again.
func prompt(in io.Reader, out io.Writer, sess *session.Session, given map[string]bool) error {
	scanner := bufio.NewScanner(in)
	view := sess.View()

	for _, f := range view.Fields {
		if given[f.Name] {
			continue
		}

		for {
			fmt.Fprint(out, promptLine(f))
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				fmt.Fprintln(out)
				return nil
			}

			answer := strings.TrimSpace(scanner.Text())
			if answer == "" {
				break
			}
			if err := sess.Update(f.Name, answer); err != nil {
				fmt.Fprintln(out, apperrors.UserMessage(err))
				continue
			}
			break
		}
	}

	return nil
}

func promptLine(f session.FieldView) string {
	var b strings.Builder
	b.WriteString(f.Label)

	if f.Kind == form.KindCategorical {
		opts := make([]string, 0, len(f.Options))
		current := f.Value
		for _, o := range f.Options {
			opts = append(opts, fmt.Sprintf("%d=%s", o.Code, o.Label))
			if fmt.Sprint(o.Code) == f.Value {
				current = o.Label
			}
		}
		fmt.Fprintf(&b, " [%s] (default %s)", strings.Join(opts, ", "), current)
	} else if f.Placeholder != "" {
		fmt.Fprintf(&b, " (%s)", f.Placeholder)
	}

	b.WriteString(": ")
	return b.String()
}
