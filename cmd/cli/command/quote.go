package command

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"quotehub/cmd/cli/dto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	successColor = color.New(color.FgGreen)
	authorColor  = color.New(color.FgCyan)
	likedColor   = color.New(color.FgRed)
	mutedColor   = color.New(color.FgHiBlack)
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote commands",
	Long:  `Get random quotes, like and rate them, search and list your liked quotes.`,
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Show a random quote",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		quote, err := getOptionalClient().RandomQuote(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get a quote: %w", err)
		}
		printQuote(out(cmd), quote)
		return nil
	},
}

var likeCmd = &cobra.Command{
	Use:   "like [quote-id]",
	Short: "Like a quote, or remove your like if you already liked it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quoteID, err := parseQuoteID(args[0])
		if err != nil {
			return err
		}
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}

		quote, err := httpClient.LikeQuote(cmd.Context(), quoteID)
		if err != nil {
			return fmt.Errorf("failed to like quote: %w", err)
		}
		successColor.Fprintf(out(cmd), "✓ Like toggled. Quote %d now has %d like(s).\n", quote.ID, quote.TotalLikes)
		return nil
	},
}

var rateCmd = &cobra.Command{
	Use:   "rate [quote-id] [rating]",
	Short: "Rate a quote (1-5)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quoteID, err := parseQuoteID(args[0])
		if err != nil {
			return err
		}
		rating, err := strconv.Atoi(args[1])
		if err != nil || rating < 1 || rating > 5 {
			return fmt.Errorf("rating must be a whole number between 1 and 5")
		}
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}

		quote, err := httpClient.RateQuote(cmd.Context(), quoteID, rating)
		if err != nil {
			return fmt.Errorf("failed to rate quote: %w", err)
		}
		successColor.Fprintln(out(cmd), "✓ Rating submitted successfully!")
		printQuote(out(cmd), quote)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search quotes by content or author",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		term := strings.Join(args, " ")

		result, err := getOptionalClient().SearchQuotes(cmd.Context(), term, page)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		printPage(out(cmd), result, fmt.Sprintf("No quotes found for %q.", term))
		return nil
	},
}

var likedCmd = &cobra.Command{
	Use:   "liked",
	Short: "List the quotes you liked, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}

		result, err := httpClient.LikedQuotes(cmd.Context(), page)
		if err != nil {
			return fmt.Errorf("failed to list liked quotes: %w", err)
		}
		printPage(out(cmd), result, "You have not liked any quotes yet.")
		return nil
	},
}

func init() {
	quoteCmd.AddCommand(randomCmd)
	quoteCmd.AddCommand(likeCmd)
	quoteCmd.AddCommand(rateCmd)
	quoteCmd.AddCommand(searchCmd)
	quoteCmd.AddCommand(likedCmd)

	searchCmd.Flags().Int("page", 1, "Page number")
	likedCmd.Flags().Int("page", 1, "Page number")
}

func parseQuoteID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid quote ID: %q", raw)
	}
	return id, nil
}

func printQuote(w io.Writer, q *dto.QuoteResponse) {
	fmt.Fprintf(w, "\n  \"%s\"\n", q.Content)
	authorColor.Fprintf(w, "    - %s\n\n", q.Author)
	fmt.Fprintf(w, "  #%d  ♥ %d  ★ %.2f (%d ratings)", q.ID, q.TotalLikes, q.AverageRating, q.TotalRatings)
	if q.Liked != nil && *q.Liked {
		likedColor.Fprint(w, "  [liked]")
	}
	if q.UserRating != nil && *q.UserRating > 0 {
		fmt.Fprintf(w, "  [your rating: %d]", *q.UserRating)
	}
	fmt.Fprintln(w)
}

func printPage(w io.Writer, page *dto.PaginatedQuotesResponse, empty string) {
	if len(page.Quotes) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for i := range page.Quotes {
		printQuote(w, &page.Quotes[i])
	}
	p := page.Pagination
	mutedColor.Fprintf(w, "\nPage %d of %d (%d quotes)\n", p.CurrentPage, p.TotalPages, p.TotalCount)
}
