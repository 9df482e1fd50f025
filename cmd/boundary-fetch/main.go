// boundary-fetch downloads administrative boundaries for a list of places
// and writes each one as a timestamped GeoJSON file.
//
//	boundary-fetch -out boundaries "Bengaluru, India" "Bhopal, India"
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/bsaid97/go-boundary-editor/config"
	"github.com/bsaid97/go-boundary-editor/geocode"
	"github.com/bsaid97/go-boundary-editor/utils"
	"github.com/tj/go-spin"
)

func main() {
	cfg := config.Load()

	outDir := flag.String("out", cfg.SaveDir, "directory to write GeoJSON files to")
	workers := flag.Int("workers", 4, "number of concurrent fetches")
	timeout := flag.Duration("timeout", cfg.HTTPTimeout, "per-request timeout")
	flag.Parse()

	places := flag.Args()
	if len(places) == 0 {
		fmt.Fprintln(os.Stderr, "usage: boundary-fetch [flags] PLACE [PLACE...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	client := geocode.NewClient(cfg.NominatimURL, cfg.UserAgent, &http.Client{Timeout: *timeout})

	pool := utils.NewWorkerPool(*workers, len(places))
	pool.Start(func(place string) utils.FetchResult {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()

		feature, err := client.FetchBoundary(ctx, place)
		if err != nil {
			return utils.FetchResult{Place: place, Err: err}
		}
		path, err := utils.SaveFeature(feature, *outDir)
		return utils.FetchResult{Place: place, Path: path, Err: err}
	})

	for _, place := range places {
		pool.Submit(place)
	}
	pool.Close()

	spinner := spin.New()
	failed := 0
	for done := 0; done < len(places); {
		select {
		case result := <-pool.Results:
			done++
			fmt.Printf("\r\033[K")
			if result.Err != nil {
				failed++
				fmt.Printf("FAIL %s: %v\n", result.Place, result.Err)
			} else {
				fmt.Printf("OK   %s -> %s\n", result.Place, result.Path)
			}
		case <-time.After(100 * time.Millisecond):
			fmt.Printf("\r  %s fetching boundaries", spinner.Next())
		}
	}
	pool.Wait()

	if failed > 0 {
		fmt.Printf("%d of %d fetches failed\n", failed, len(places))
		os.Exit(1)
	}
}
