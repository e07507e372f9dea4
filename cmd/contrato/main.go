// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command contrato renders service contracts to PDF files on disk. The
// input is either a plain-text contract or an .xlsx workbook with one
// contract per row.
//
//	contrato -client "ACME Ltda" -out pdfs contrato.txt
//	contrato -variant formal -city Curitiba clientes.xlsx
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"docstudio/internal/contract"
	"docstudio/internal/slug"
)

func main() {
	// A .env file is optional.
	_ = godotenv.Load()

	variantName := flag.String("variant", "", "layout variant: standard or formal")
	city := flag.String("city", os.Getenv("CONTRACT_CITY"), "city printed on the signature line")
	client := flag.String("client", "", "client name for a text contract")
	out := flag.String("out", ".", "output directory")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: contrato [flags] <contract.txt|clients.xlsx>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	variant, err := contract.VariantByName(*variantName)
	if err != nil {
		slog.Error("invalid variant", "error", err)
		os.Exit(2)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		slog.Error("failed to create output directory", "dir", *out, "error", err)
		os.Exit(1)
	}

	opts := contract.Options{Variant: variant, City: *city}
	input := flag.Arg(0)
	if strings.EqualFold(filepath.Ext(input), ".xlsx") {
		err = renderWorkbook(input, *out, opts)
	} else {
		err = renderText(input, *client, *out, opts)
	}
	if err != nil {
		slog.Error("render failed", "input", input, "error", err)
		os.Exit(1)
	}
}

func renderText(path, client, dir string, opts contract.Options) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read contract: %w", err)
	}
	if strings.TrimSpace(string(text)) == "" {
		return fmt.Errorf("%s is empty", path)
	}
	file, err := contract.Generate(string(text), client, opts)
	if err != nil {
		return err
	}
	return write(dir, file)
}

// renderWorkbook renders every row. A failing row is logged and the rest
// still render; the returned error reports how many failed.
func renderWorkbook(path, dir string, opts contract.Options) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := contract.ImportXLSX(f)
	if err != nil {
		return err
	}

	failed := 0
	for i, row := range rows {
		file, err := contract.GenerateFromData(row, opts)
		if err == nil {
			err = write(dir, file)
		}
		if err != nil {
			failed++
			slog.Error("row failed", "row", i+1, "client", row.ClientName, "error", err)
		}
	}
	slog.Info("workbook rendered", "rows", len(rows), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d rows failed", failed, len(rows))
	}
	return nil
}

func write(dir string, file contract.File) error {
	path := filepath.Join(dir, slug.Filename(file.Name))
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("contract written", "path", path, "pages", file.Pages)
	return nil
}
