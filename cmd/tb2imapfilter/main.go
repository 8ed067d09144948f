package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.schidlow.ski/gitea/tb2imapfilter/pkg/imapfilter"
	"git.schidlow.ski/gitea/tb2imapfilter/pkg/log"
	"git.schidlow.ski/gitea/tb2imapfilter/pkg/msgfilter"
	"git.schidlow.ski/gitea/tb2imapfilter/pkg/profile"
	hackpados "github.com/hack-pad/hackpadfs/os"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

func main() {
	log.ConfigLogger(logrus.InfoLevel)

	root := &cobra.Command{
		Use:          "tb2imapfilter <profile-dir>",
		Short:        "Convert Thunderbird filter rules into an imapfilter script",
		Long:         "Reads every ImapMail/<server>/msgFilterRules.dat under the given Thunderbird profile directory and writes one imapfilter configuration script to stdout. Edit the USERNAME/PASSWORD placeholders before using it.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			check, err := cmd.Flags().GetBool("check")
			if err != nil {
				return err
			}

			script, report, err := convert(args[0], cmd)
			if err != nil {
				return err
			}

			for _, warning := range report.Warnings() {
				log.Log().Warn(warning)
			}

			if check {
				if err := imapfilter.CheckSyntax(script); err != nil {
					return fmt.Errorf("generated script failed syntax check: %w", err)
				}
			}

			_, err = io.WriteString(cmd.OutOrStdout(), script)
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.String("mappings.file", "", "YAML file with additional condition/action mappings")
	root.Flags().Bool("check", false, "compile the generated script with a Lua parser before printing it")

	root.AddCommand(mappingsCommand(), checkCommand())

	if err := root.Execute(); err != nil {
		log.Log().Error(err)
		os.Exit(1)
	}
}

func convert(profileDir string, cmd *cobra.Command) (string, *imapfilter.Report, error) {
	fsys := hackpados.NewFS()

	absRoot, err := filepath.Abs(profileDir)
	if err != nil {
		return "", nil, err
	}
	fsRoot, err := fsys.FromOSPath(absRoot)
	if err != nil {
		return "", nil, err
	}

	files, err := profile.Discover(fsys, fsRoot)
	if err != nil {
		return "", nil, err
	}

	translator, err := loadTranslator(cmd)
	if err != nil {
		return "", nil, err
	}

	report := imapfilter.NewReport()
	accounts := imapfilter.NewAccountSet()
	var rules []msgfilter.Rule
	parsed := 0

	for _, ff := range files {
		content, err := profile.ReadFile(fsys, ff.Path)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read %s: %w", ff.Path, err)
		}

		result, err := msgfilter.Parse(content, ff.Server)
		if err != nil {
			report.Warnf("skipping %s: %v", ff.Path, err)
			continue
		}
		parsed++

		accounts.Ensure(ff.Server)
		for _, skipped := range result.Skipped {
			report.Warnf("rule %q in %s skipped: %s", skipped.Name, ff.Path, skipped.Reason)
		}
		rules = append(rules, result.Rules...)
	}

	if parsed == 0 {
		return "", nil, fmt.Errorf("no usable filter file under %q", profileDir)
	}

	return imapfilter.Render(rules, accounts, translator, report), report, nil
}

func loadTranslator(cmd *cobra.Command) (*imapfilter.Translator, error) {
	mappingsFile, err := cmd.Flags().GetString("mappings.file")
	if err != nil {
		return nil, err
	}

	var extra *imapfilter.Mappings
	if mappingsFile != "" {
		data, err := os.ReadFile(mappingsFile)
		if err != nil {
			return nil, err
		}
		extra = &imapfilter.Mappings{}
		if err := yaml.Unmarshal(data, extra); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", mappingsFile, err)
		}
	}

	return imapfilter.NewTranslator(extra), nil
}

func mappingsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mappings",
		Short: "Print the effective mapping tables as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			translator, err := loadTranslator(cmd)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(translator.Effective())
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <script.lua>",
		Short: "Syntax-check a generated script ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			return imapfilter.CheckSyntax(string(data))
		},
	}
}
