package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/MrSnakeDoc/prefire/internal/catalog"
	"github.com/MrSnakeDoc/prefire/internal/domain"
	"github.com/MrSnakeDoc/prefire/internal/logger"
	"github.com/MrSnakeDoc/prefire/internal/pagination"
	"github.com/MrSnakeDoc/prefire/internal/scryfall"
	"github.com/MrSnakeDoc/prefire/internal/search"
	"github.com/MrSnakeDoc/prefire/internal/version"
)

// filterFlags are shared by search and query.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "edition", Aliases: []string{"e"}, Usage: "Restrict to edition codes (default: every curated edition)"},
		&cli.StringFlag{Name: "color", Aliases: []string{"c"}, Usage: "Color: w, u, b, r, g, c or m"},
		&cli.StringSliceFlag{Name: "rarity", Aliases: []string{"r"}, Usage: "Rarity: common, uncommon, rare, mythic"},
		&cli.StringSliceFlag{Name: "type", Aliases: []string{"t"}, Usage: "Card type"},
		&cli.BoolFlag{Name: "type-and", Usage: "Require every --type instead of any"},
		&cli.StringFlag{Name: "cmc", Usage: "Mana value: 0-5, or 6 for six and more"},
		&cli.StringSliceFlag{Name: "format", Usage: "Legal in format"},
		&cli.StringSliceFlag{Name: "keyword", Usage: "Has keyword"},
		&cli.StringFlag{Name: "oracle", Usage: "Oracle text contains"},
		&cli.StringFlag{Name: "artist", Usage: "Artist name"},
		&cli.StringFlag{Name: "flavor", Usage: "Flavor text contains"},
		&cli.IntFlag{Name: "price-min", Usage: "Minimum USD price", Value: domain.PriceFloor},
		&cli.IntFlag{Name: "price-max", Usage: "Maximum USD price, 100 means no ceiling", Value: domain.PriceCeiling},
		&cli.StringFlag{Name: "power", Usage: "Power, e.g. >=3 or 2"},
		&cli.StringFlag{Name: "toughness", Usage: "Toughness, e.g. <=2"},
		&cli.StringFlag{Name: "loyalty", Usage: "Loyalty, e.g. >=4"},
		&cli.StringFlag{Name: "custom", Usage: "Raw Scryfall syntax appended to the query"},
	}
}

func requestFromFlags(c *cli.Command) (search.Request, error) {
	req := search.NewRequest(strings.Join(c.Args().Slice(), " "))

	f := &req.Filters
	f.Editions = c.StringSlice("edition")
	if v := c.String("color"); v != "" {
		f.Color = domain.Color(strings.ToLower(v))
	}
	for _, r := range c.StringSlice("rarity") {
		f.Rarity = append(f.Rarity, domain.Rarity(strings.ToLower(r)))
	}
	f.Type = c.StringSlice("type")
	f.TypeAndLogic = c.Bool("type-and")
	if v := c.String("cmc"); v != "" {
		f.CMC = v
	}

	a := &req.Advanced
	a.Formats = c.StringSlice("format")
	a.Keywords = c.StringSlice("keyword")
	a.TextContains = c.String("oracle")
	a.Artist = c.String("artist")
	a.FlavorText = c.String("flavor")
	a.CustomQuery = c.String("custom")
	a.PriceRange = domain.PriceRange{c.Int("price-min"), c.Int("price-max")}
	a.PowerToughness.Power = domain.ParseComparison(c.String("power"), a.PowerToughness.Power)
	a.PowerToughness.Toughness = domain.ParseComparison(c.String("toughness"), a.PowerToughness.Toughness)
	a.Loyalty = domain.ParseComparison(c.String("loyalty"), a.Loyalty)
	return req, a.PriceRange.Validate()
}

func searchCommand() *cli.Command {
	flags := append(filterFlags(),
		&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Usage: "Virtual page", Value: 1},
		&cli.IntFlag{Name: "page-size", Usage: "Cards per page", Value: pagination.DefaultPageSize},
		&cli.StringFlag{Name: "base-url", Usage: "Scryfall API base URL", Value: scryfall.DefaultBaseURL, Sources: cli.EnvVars("PREFIRE_SCRYFALL_BASE_URL")},
		&cli.DurationFlag{Name: "timeout", Usage: "Overall deadline", Value: 30 * time.Second},
	)

	return &cli.Command{
		Name:      "search",
		Usage:     "Run a filtered search against Scryfall",
		ArgsUsage: "[text]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, c.Duration("timeout"))
			defer cancel()

			client := scryfall.NewClient(
				scryfall.WithBaseURL(c.String("base-url")),
				scryfall.WithUserAgent(version.UserAgent()),
				scryfall.WithHTTPClient(&http.Client{Timeout: 15 * time.Second}),
			)
			svc := search.NewService(client, catalog.Default().Codes(), nil, c.Int("page-size"), logger.Nop())

			req, err := requestFromFlags(c)
			if err != nil {
				return err
			}
			req.Page = c.Int("page")
			req.PageSize = c.Int("page-size")

			res, err := svc.Search(ctx, req)
			if err != nil {
				return fmt.Errorf("search %q: %w", res.Compiled, err)
			}
			if c.Bool("json") {
				return writeJSON(os.Stdout, res)
			}
			renderResult(os.Stdout, res)
			return nil
		},
	}
}

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Print the Scryfall query the filters compile to",
		ArgsUsage: "[text]",
		Flags:     filterFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			svc := search.NewService(nil, catalog.Default().Codes(), nil, 0, logger.Nop())
			req, err := requestFromFlags(c)
			if err != nil {
				return err
			}
			q := svc.Compile(req)
			if c.Bool("json") {
				return writeJSON(os.Stdout, map[string]string{"query": q})
			}
			fmt.Fprintln(os.Stdout, q)
			return nil
		},
	}
}

func editionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "editions",
		Usage: "List the curated editions",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "after", Usage: "Only editions released after this date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "match", Aliases: []string{"m"}, Usage: "Rank editions by name or code, e.g. kamigawa"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cat := catalog.Default()
			if q := c.String("match"); q != "" {
				matches := cat.Match(q, 10)
				if c.Bool("json") {
					return writeJSON(os.Stdout, matches)
				}
				renderMatches(os.Stdout, q, matches)
				return nil
			}
			if after := c.String("after"); after != "" {
				t, err := time.Parse(time.DateOnly, after)
				if err != nil {
					return fmt.Errorf("invalid --after: %w", err)
				}
				editions := cat.ReleasedAfter(t)
				if c.Bool("json") {
					return writeJSON(os.Stdout, editions)
				}
				renderEditions(os.Stdout, []catalog.Group{{Category: catalog.CategoryPreFIRE, Editions: editions}})
				return nil
			}
			groups := cat.GroupByCategory()
			if c.Bool("json") {
				return writeJSON(os.Stdout, groups)
			}
			renderEditions(os.Stdout, groups)
			return nil
		},
	}
}

func pagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "pages",
		Usage: "Show the page-number bar for a page out of a total",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "current", Value: 1},
			&cli.IntFlag{Name: "total", Value: 1},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			pages := pagination.PageNumbers(c.Int("current"), c.Int("total"))
			if c.Bool("json") {
				return writeJSON(os.Stdout, pages)
			}
			fmt.Fprintln(os.Stdout, renderPages(pages, c.Int("current")))
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
