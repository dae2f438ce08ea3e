package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kailas-cloud/placeqa/internal/domain/quality"
	assessmentuc "github.com/kailas-cloud/placeqa/internal/usecase/assessment"
)

func printResult(w io.Writer, res *assessmentuc.Result) {
	if res.Location != nil {
		addr := res.Location.FormattedAddress
		if addr == "" {
			addr = res.Location.Query
		}
		fmt.Fprintf(w, "%s (%s), radius %dm\n", addr, res.Location.Center, res.RadiusMeters)
	}
	fmt.Fprintln(w, res.Report.String())

	if len(res.Businesses) > 0 {
		fmt.Fprintln(w, renderTable(businessRows(res)))
		fmt.Fprintln(w, renderTable(fieldRows(&res.Summary)))
	}

	if len(res.Issues) > 0 {
		fmt.Fprintln(w, "Issues:")
		for _, is := range res.Issues {
			fmt.Fprintf(w, "  - %s\n", is.Message)
		}
		if res.MoreIssues > 0 {
			fmt.Fprintf(w, "  + %d more\n", res.MoreIssues)
		}
	}

	if res.Usage != nil {
		fmt.Fprintf(w, "Provider calls: %d\n", res.Usage.ProviderCalls)
	}
}

func businessRows(res *assessmentuc.Result) ([]string, [][]string, []columnAlignment) {
	headers := []string{"#", "Business", "Category", "Score", "Tier", "Issues", "Distance"}
	rows := make([][]string, 0, len(res.Businesses))
	for _, b := range res.Businesses {
		a := b.Assessment
		category, _ := b.Record.PrimaryCategory()
		distance := ""
		if b.DistanceMeters != nil {
			distance = fmt.Sprintf("%.0fm", *b.DistanceMeters)
		}
		rows = append(rows, []string{
			strconv.Itoa(a.Index + 1),
			a.Label,
			category,
			fmt.Sprintf("%d/%d", a.Passed, quality.ChecksPerRecord),
			string(a.Tier),
			strconv.Itoa(len(a.Issues)),
			distance,
		})
	}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight}
	return headers, rows, aligns
}

func fieldRows(s *assessmentuc.Summary) ([]string, [][]string, []columnAlignment) {
	headers := []string{"Check", "Passed", "Score"}
	row := func(name string, f quality.FieldScore) []string {
		return []string{name, fmt.Sprintf("%d/%d", f.Passed, s.TotalBusinesses), strconv.Itoa(f.Percent) + "%"}
	}
	rows := [][]string{
		row("name", s.Fields.Name),
		row("rating", s.Fields.Rating),
		row("address", s.Fields.Address),
		row("photos", s.Fields.Photos),
	}
	return headers, rows, []columnAlignment{alignLeft, alignRight, alignRight}
}
