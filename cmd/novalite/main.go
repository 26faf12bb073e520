package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/tuannm99/novalite"
	"github.com/tuannm99/novalite/internal/config"
	"github.com/tuannm99/novalite/internal/record"
)

func main() {
	if config.Load().Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <database file> <command>\n", os.Args[0])
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path, command string) error {
	db, err := novalite.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	switch command {
	case ".dbinfo":
		printDBInfo(db)
		return nil
	case ".tables":
		fmt.Println(strings.Join(db.Tables(), " "))
		return nil
	default:
		result, err := db.Query(command)
		if err != nil {
			return err
		}
		printRows(result.Rows)
		return nil
	}
}

func printDBInfo(db *novalite.DB) {
	fmt.Printf("database page size: %d\n", db.Header().PageSize)
	fmt.Printf("number of tables: %d\n", db.TableCount())
}

// printRows renders each row as its cells joined with "|": integers in
// decimal, text verbatim, everything else (NULL, blob, float) as an empty
// cell, per the specification's result-printing rule.
func printRows(rows [][]record.Value) {
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = renderCell(v)
		}
		fmt.Println(strings.Join(cells, "|"))
	}
}

func renderCell(v record.Value) string {
	if v.IsInt() {
		return strconv.FormatInt(v.I, 10)
	}
	if v.IsText() {
		return v.S
	}
	return ""
}
