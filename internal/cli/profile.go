package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/mixtape/internal/catalog"
	mixerrors "github.com/tessro/mixtape/internal/errors"
)

var (
	profileLiked    bool
	profileUploaded bool
)

var profileCmd = &cobra.Command{
	Use:   "profile [user]",
	Short: "Show a profile's uploaded and liked mixes",
	Long: `Show the mixes a user uploaded and the mixes they liked. Without a user
the configured catalog.user is shown.

If one list fails to load the other is still printed.

Examples:
  mixtape profile
  mixtape profile nadia --liked`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().BoolVar(&profileLiked, "liked", false, "only show liked mixes")
	profileCmd.Flags().BoolVar(&profileUploaded, "uploaded", false, "only show uploaded mixes")
	profileCmd.MarkFlagsMutuallyExclusive("liked", "uploaded")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	user := cfg.Catalog.User
	if len(args) > 0 {
		user = args[0]
	}
	if user == "" {
		return mixerrors.ErrNoUser
	}

	src, closeCatalog, err := openCatalog(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = closeCatalog() }()

	res := catalog.LoadProfile(cmd.Context(), src, user)
	if res.HasErrors() {
		if len(res.Data.Uploaded) == 0 && len(res.Data.Liked) == 0 && len(res.Errors) == 2 {
			return fmt.Errorf("load profile: %s", res.ErrorSummary())
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", res.ErrorSummary())
	}

	showUploaded := !profileLiked
	showLiked := !profileUploaded

	if JSONOutput() {
		out := map[string]interface{}{"user": user}
		if showUploaded {
			out["uploaded"] = mixesJSON(res.Data.Uploaded)
		}
		if showLiked {
			out["liked"] = mixesJSON(res.Data.Liked)
		}
		return PrintJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	if showUploaded {
		fmt.Fprintf(w, "Uploaded by %s (%d)\n", user, len(res.Data.Uploaded))
		if len(res.Data.Uploaded) > 0 {
			renderMixes(w, res.Data.Uploaded)
		}
	}
	if showUploaded && showLiked {
		fmt.Fprintln(w)
	}
	if showLiked {
		fmt.Fprintf(w, "Liked by %s (%d)\n", user, len(res.Data.Liked))
		if len(res.Data.Liked) > 0 {
			renderMixes(w, res.Data.Liked)
		}
	}
	return nil
}
