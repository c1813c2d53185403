package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/engagement/internal/service"
)

type reconcileOptions struct {
	repair bool
	batch  int
}

// ReconcileResult is the json output of the reconcile command.
type ReconcileResult struct {
	Drifts []service.Drift `json:"drifts"`
	Fixed  int             `json:"fixed"`
}

// NewReconcileCommand creates the reconcile command.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &reconcileOptions{}
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Audit likes/comments counters against the ledger",
		Long: `Recount likes and comments for every post and report posts whose
denormalized counters disagree with the ledger. With --repair the drifted
counters are rewritten, each post in its own transaction.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := openStore(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			rec := service.NewCounterReconciler(store)
			drifts, err := rec.Audit(cmd.Context(), opts.batch)
			if err != nil {
				return err
			}
			res := ReconcileResult{Drifts: drifts}
			if opts.repair && len(drifts) > 0 {
				if res.Fixed, err = rec.Repair(cmd.Context(), drifts); err != nil {
					return err
				}
			}
			return writeResult(cmd, rootOpts, res, formatReconcile(res, opts.repair))
		},
	}
	cmd.Flags().BoolVar(&opts.repair, "repair", false, "rewrite drifted counters")
	cmd.Flags().IntVar(&opts.batch, "batch", 500, "posts per audit page")
	return cmd
}

func formatReconcile(res ReconcileResult, repair bool) string {
	if len(res.Drifts) == 0 {
		return "no drift"
	}
	var b strings.Builder
	for _, d := range res.Drifts {
		fmt.Fprintf(&b, "post %s likes %d/%d comments %d/%d\n",
			d.PostID, d.LikesCount, d.LikesActual, d.CommentsCount, d.CommentsActual)
	}
	fmt.Fprintf(&b, "%d drifted", len(res.Drifts))
	if repair {
		fmt.Fprintf(&b, ", %d repaired", res.Fixed)
	}
	return b.String()
}
