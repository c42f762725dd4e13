// import-check runs a 99 export through the import normalizer without
// touching the database and prints what an upload would store.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/euRhuanOLiveira/Driverpro/internal/importer"
	"github.com/euRhuanOLiveira/Driverpro/pkg"
	"github.com/samber/lo"
)

func main() {
	verbose := flag.Bool("v", false, "list every accepted trip")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-v] export.xlsx\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	slogger := pkg.CustomSlog("import-check", "warn")
	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		slogger.Error("cannot read file", "action", "import check", "file", path, "error", err)
		os.Exit(1)
	}

	profile, trips, err := check(bytes.NewReader(data), filepath.Base(path))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	report(os.Stdout, int64(len(data)), profile, trips, *verbose)
}

func check(r io.Reader, filename string) (domain.DriverProfile, []domain.Trip, error) {
	wb, err := importer.ReadWorkbook(r, filename)
	if err != nil {
		return domain.DriverProfile{}, nil, err
	}
	return importer.NewExtractor().Extract(wb)
}

func report(w io.Writer, size int64, profile domain.DriverProfile, trips []domain.Trip, verbose bool) {
	gross := lo.SumBy(trips, func(t domain.Trip) float64 { return t.FareGross })
	withDistance := lo.Filter(trips, func(t domain.Trip, _ int) bool { return t.DistanceKm != nil })
	km := lo.SumBy(withDistance, func(t domain.Trip) float64 { return *t.DistanceKm })

	fmt.Fprintf(w, "arquivo:      %s\n", humanize.Bytes(uint64(size)))
	fmt.Fprintf(w, "motorista:    %s (%s)\n", profile.DriverID, profile.CityName)
	fmt.Fprintf(w, "corridas:     %s\n", humanize.Comma(int64(len(trips))))
	fmt.Fprintf(w, "faturamento:  R$ %s\n", humanize.FormatFloat("#.###,##", gross))
	fmt.Fprintf(w, "distância:    %s km em %s corridas\n", humanize.FormatFloat("#.###,#", km), humanize.Comma(int64(len(withDistance))))

	if len(trips) > 0 {
		first := lo.MinBy(trips, func(a, b domain.Trip) bool { return a.TripDate.Before(b.TripDate) })
		last := lo.MaxBy(trips, func(a, b domain.Trip) bool { return a.TripDate.After(b.TripDate) })
		days := int(last.TripDate.Sub(first.TripDate).Hours()/24) + 1
		fmt.Fprintf(w, "período:      %s a %s (%s dias)\n",
			first.TripDate.Format("02/01/2006"),
			last.TripDate.Format("02/01/2006"),
			humanize.Comma(int64(days)),
		)
	}

	if !verbose {
		return
	}
	for _, t := range trips {
		fmt.Fprintf(w, "  %-20s %s  R$ %s\n", t.TripID, t.StartedAt.Format(time.DateTime), humanize.FormatFloat("#.###,##", t.FareGross))
	}
}
