package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	. "github.com/kungfusheep/forme"
)

func main() {
	var (
		file    string
		theme   string
		logPath string
	)

	cmd := &cobra.Command{
		Use:   "formsdemo",
		Short: "Run a form in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if logPath != "" {
				f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log: %w", err)
				}
				defer f.Close()
				SetLogger(zerolog.New(zerolog.ConsoleWriter{Out: f, NoColor: true}).
					With().Timestamp().Logger().Level(zerolog.DebugLevel))
			}

			t, ok := ThemeByName(theme)
			if !ok {
				return fmt.Errorf("unknown theme %q", theme)
			}

			root, keys, values, err := buildForm(file, t)
			if err != nil {
				return err
			}

			var final Result
			host := NewHost(root,
				HostTitle("Sign up"),
				HostTheme(t),
				HostOnSubmit(func(r Result) { final = r }),
			)
			if _, err := tea.NewProgram(host).Run(); err != nil {
				return err
			}

			if final.IsValid() {
				vals := values()
				for _, k := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", k, vals[k])
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML form document (default: built-in sign-up form)")
	cmd.Flags().StringVar(&theme, "theme", "dark", "theme: dark, light or mono")
	cmd.Flags().StringVar(&logPath, "log", "", "write debug logs to this file")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildForm returns the form, its value keys in display order, and a
// snapshot of the values by key.
func buildForm(file string, t Theme) (Element, []string, func() map[string]any, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("read form: %w", err)
		}
		doc, err := LoadForm(data, WithFormatter("upper", strings.ToUpper))
		if err != nil {
			return nil, nil, nil, err
		}
		return doc.Root, doc.Bindings.Keys(), doc.Bindings.Values, nil
	}

	name := NewObservable("")
	email := NewObservable("")
	card := NewObservable("")
	plan := NewObservable("free")
	news := NewObservable(false)
	terms := NewObservable(false)

	// pretend to ask a server whether the name is taken
	available := NewAsyncRule("available", func(s string, done func(Result)) {
		time.AfterFunc(200*time.Millisecond, func() {
			if strings.EqualFold(s, "admin") {
				done(Invalid("That name is taken"))
				return
			}
			done(Valid)
		})
	})

	root := Group.Theme(t)(
		Group.Theme(t).Grouped().Insets(0, 1, 0, 1)(
			EditableText("Name", name, Placeholder("your name"), Rules(Required(), MaxLength(32), available)),
			EditableText("Email", email, Placeholder("you@example.com"), Continuous(), Rules(Required(), Email())),
		),
		Spacer(1),
		StaticText("Billing"),
		Group.Theme(t).Grouped().Insets(0, 1, 0, 1)(
			Segment("Plan", plan, Item("Free", "free"), Item("Pro", "pro"), Item("Team", "team")),
			EditableText("Card", card, Placeholder("4111 1111 1111 1111"),
				Formatter(func(s string) string { return strings.ReplaceAll(s, " ", "") }),
				Rules(Digits(), Luhn())),
		),
		Spacer(1),
		Group.Theme(t).Grouped()(
			Boolean("Send me news", news),
			Boolean("I accept the terms", terms, Checked()),
		),
	)

	values := func() map[string]any {
		return map[string]any{
			"name":  name.Get(),
			"email": email.Get(),
			"plan":  plan.Get(),
			"card":  card.Get(),
			"news":  news.Get(),
			"terms": terms.Get(),
		}
	}
	keys := []string{"name", "email", "plan", "card", "news", "terms"}
	return root, keys, values, nil
}
