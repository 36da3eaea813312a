package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/olekukonko/tablewriter"

	"github.com/kakaromo/trace/internal/query"
	"github.com/kakaromo/trace/internal/types"
)

// runShell runs the interactive SQL shell over the registered views.
func runShell(ctx context.Context, svc *query.Service) {
	fmt.Println("Interactive SQL shell. Views:", strings.Join(svc.Views(), ", "))
	fmt.Println("Commands: .latency <view>, .views, .quit")

	executor := func(line string) {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			return
		case line == ".quit" || line == ".exit" || line == "exit":
			os.Exit(0)
		case line == ".views":
			fmt.Println(strings.Join(svc.Views(), ", "))
			return
		case strings.HasPrefix(line, ".latency"):
			name := strings.TrimSpace(strings.TrimPrefix(line, ".latency"))
			t, err := types.ParseTraceType(name)
			if err != nil {
				fmt.Println("usage: .latency ufs|block|ufscustom")
				return
			}
			res, err := svc.LatencySummary(ctx, t)
			if err != nil {
				fmt.Println("error:", err)
				return
			}
			renderResult(os.Stdout, res)
			return
		default:
			res, err := svc.Query(ctx, line)
			if err != nil {
				fmt.Println("error:", err)
				return
			}
			renderResult(os.Stdout, res)
		}
	}

	completer := func(d prompt.Document) []prompt.Suggest {
		suggests := []prompt.Suggest{
			{Text: "SELECT", Description: "query records"},
			{Text: "FROM", Description: ""},
			{Text: "WHERE", Description: ""},
			{Text: "GROUP BY", Description: ""},
			{Text: "ORDER BY", Description: ""},
			{Text: "LIMIT", Description: ""},
			{Text: ".latency", Description: "per-action latency summary"},
			{Text: ".views", Description: "list registered views"},
			{Text: ".quit", Description: "leave the shell"},
		}
		for _, v := range svc.Views() {
			suggests = append(suggests, prompt.Suggest{Text: v, Description: "trace view"})
		}
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
	}

	p := prompt.New(executor, completer,
		prompt.OptionPrefix("trace> "),
		prompt.OptionTitle("traced"),
	)
	p.Run()
}

// renderResult prints a query result as an aligned table with a row count.
func renderResult(w io.Writer, res *query.Result) {
	if len(res.Rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(res.Columns)
	for _, row := range res.Rows {
		table.Append(row)
	}
	table.Render()
	fmt.Fprintf(w, "%d row(s)\n", len(res.Rows))
}
