package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/GabrielSaul/jpgdig/internal/manifest"
	"github.com/GabrielSaul/jpgdig/pkg/logging"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: readManifest <manifest dir>")
		os.Exit(2)
	}

	store, err := manifest.Open(manifest.StoreConfig{Path: os.Args[1], Logger: logging.Discard()})
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	records, err := store.Records()
	if err != nil {
		log.Fatal(err)
	}

	var total uint64
	for _, r := range records {
		fmt.Printf("%s\tindex=%d\toffset=%d\tsize=%s\tblocks=%d\n",
			r.Name, r.Index, r.Offset, humanize.Bytes(r.Size), r.Blocks)
		total += r.Size
	}

	fmt.Printf("Total recovered files: %d (%s)\n", len(records), humanize.Bytes(total))
}
