package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/publish"
)

var (
	publishConfig     bool
	publishStubs      bool
	publishComponents bool
	publishAll        bool
	publishList       bool
	publishForce      bool
	publishTag        string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish BAL Kit resources (config, stubs, components)",
	Long: heredoc.Doc(`
		Publish BAL Kit resources into the application so they can be edited.

		Published stubs in stubs/bal-kit replace the bundled templates on the
		next install. Existing files are kept unless --force is given.

		Examples:
		  balkit publish --config              # Write .balkit.yml
		  balkit publish --stubs --force       # Export every template again
		  balkit publish --tag=bal-kit-sass    # Publish one tag
		  balkit publish --list                # Show the available tags
	`),
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().BoolVar(&publishConfig, "config", false, "Publish configuration file")
	publishCmd.Flags().BoolVar(&publishStubs, "stubs", false, "Publish stub files")
	publishCmd.Flags().BoolVar(&publishComponents, "components", false, "Publish example Livewire components")
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Publish all resources")
	publishCmd.Flags().BoolVar(&publishList, "list", false, "List the publishable tags")
	publishCmd.Flags().BoolVar(&publishForce, "force", false, "Overwrite existing files")
	publishCmd.Flags().StringVar(&publishTag, "tag", "", "Publish a single tag")
}

// publishStep is one selectable group of the publish command.
type publishStep struct {
	tag      string
	selected bool
	before   string
	done     string
}

// runPublish always exits successfully, like install.
func runPublish(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return nil
	}
	ctx := commandContext(cmd)

	if publishList {
		listTags(s)
		return nil
	}

	s.printer.Info("Publishing BAL Kit resources...")
	s.printer.NewLine()

	p := publish.NewPublisher(s.fs, s.config, s.logger)

	if publishTag != "" {
		if err := publishOne(cmd, s, p, publishTag); err != nil {
			return nil
		}
		s.printer.NewLine()
		s.printer.Info("BAL Kit resources published successfully!")
		return nil
	}

	steps := []publishStep{
		{tag: publish.TagConfig, selected: publishAll || publishConfig, done: "Configuration file published"},
		{tag: publish.TagStubs, selected: publishAll || publishStubs, done: "Stub files published"},
		{
			tag:      publish.TagComponents,
			selected: publishAll || publishComponents,
			before:   "Publishing example Livewire components...",
			done:     "Example components published",
		},
	}

	selected := 0
	for _, step := range steps {
		if !step.selected {
			continue
		}
		selected++
		if step.before != "" {
			s.printer.Info(step.before)
		}
		if err := publishOne(cmd, s, p, step.tag); err != nil {
			continue
		}
		s.printer.Info(step.done)
	}

	if selected == 0 {
		s.printer.Info("Specify what to publish: --config, --stubs, --components, or --all")
		return nil
	}

	s.printer.NewLine()
	s.printer.Info("BAL Kit resources published successfully!")
	s.logger.Debug(ctx, "Publish finished", "groups", selected, "force", publishForce)
	return nil
}

// publishOne publishes a tag and prints what was written and kept.
func publishOne(cmd *cobra.Command, s *session, p *publish.Publisher, tag string) error {
	ctx := commandContext(cmd)

	result, err := p.Publish(ctx, tag, publishForce)
	for _, path := range result.Written {
		s.printer.Comment("Published " + path)
	}
	for _, path := range result.Skipped {
		s.printer.Comment(fmt.Sprintf("Kept existing %s (use --force to overwrite)", path))
	}
	if err != nil {
		s.logger.Warn(ctx, err, "Publish failed", "tag", tag)
		if kiterrors.HasCode(err, kiterrors.ErrCodeUnknownTag) {
			s.printer.Error(kiterrors.FormatError(err))
			for _, hint := range kiterrors.Suggestions(err) {
				s.printer.Info("   " + hint)
			}
			return err
		}
		s.printer.Warn(fmt.Sprintf("Could not publish %s: %s", tag, kiterrors.FormatError(err)))
		return err
	}
	return nil
}

func listTags(s *session) {
	s.printer.Title("Available tags")
	for _, tag := range publish.Tags() {
		s.printer.Line(fmt.Sprintf("  %-20s %s", tag.Name, tag.Description))
	}
}
