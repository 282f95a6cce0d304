// Command brawn inserts query protein sequences into an existing reference
// alignment, in the manner of MUSCLE's profile mode.
//
// Usage:
//
//	brawn query.fasta --reference-alignment ref.fasta [--output-columns N]
//	brawn ref.fasta --build-cache ref.cache
//
// The reference alignment may be a FASTA file or a previously built cache
// file; the two are told apart by content. For drop-in compatibility, the
// MUSCLE invocation `brawn -profile -in1 query.fasta -in2 ref.fasta` is
// rewritten to the native flags.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/SJShaw/brawn"
)

var (
	flagReference     = ""
	flagBuildCache    = ""
	flagOutput        = ""
	flagOutputColumns = brawn.DefaultFastaColumns
)

func init() {
	log.SetFlags(0)

	pflag.StringVar(&flagReference, "reference-alignment", flagReference,
		"The reference alignment to insert query sequences into, either "+
			"FASTA or a cache file built with --build-cache.")
	pflag.StringVar(&flagBuildCache, "build-cache", flagBuildCache,
		"When set, build a profile cache of the input alignment at the "+
			"given path instead of aligning.")
	pflag.StringVar(&flagOutput, "output", flagOutput,
		"Write the combined alignment to the given file instead of stdout.")
	pflag.IntVar(&flagOutputColumns, "output-columns", flagOutputColumns,
		"The maximum number of sequence columns per output line.")
	pflag.Usage = usage
}

func main() {
	if err := pflag.CommandLine.Parse(swapMuscleArgs(os.Args[1:])); err != nil {
		fatalf("%s\n", err)
	}
	if pflag.NArg() != 1 {
		usage()
	}

	if len(flagBuildCache) > 0 {
		if err := buildCache(pflag.Arg(0), flagBuildCache); err != nil {
			fatalf("Could not build cache file: %s\n", err)
		}
		return
	}

	if len(flagReference) == 0 {
		usage()
	}
	if err := run(pflag.Arg(0), flagReference); err != nil {
		fatalf("%s\n", err)
	}
}

func run(queryPath, referencePath string) error {
	reference, err := readReference(referencePath)
	if err != nil {
		return err
	}

	queryFile, err := os.Open(queryPath)
	if err != nil {
		return fmt.Errorf("could not open query file: %s", err)
	}
	defer queryFile.Close()
	query, err := brawn.ReadAlignment(queryFile)
	if err != nil {
		return fmt.Errorf("invalid query format: %s", err)
	}

	combined, err := brawn.CombineAlignments(reference, query)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if len(flagOutput) > 0 {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("could not create output file: %s", err)
		}
		defer f.Close()
		out = f
	}
	return combined.WriteFasta(out, flagOutputColumns)
}

// readReference loads the reference alignment, trying the cache format
// first and falling back to FASTA.
func readReference(path string) (*brawn.Alignment, error) {
	reference, err := brawn.ReadCacheFile(path)
	if err == nil {
		return reference, nil
	}
	var corrupt brawn.CorruptCacheError
	if !errors.As(err, &corrupt) {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open reference alignment: %s", err)
	}
	defer f.Close()
	reference, err = brawn.ReadAlignment(f)
	if err != nil {
		return nil, fmt.Errorf("unknown reference alignment format: %s", err)
	}
	return reference, nil
}

// buildCache computes the profile of the input alignment and persists it
// without performing any alignment.
func buildCache(inputPath, cachePath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	alignment, err := brawn.ReadAlignment(f)
	if err != nil {
		return err
	}
	return alignment.WriteCacheFile(cachePath)
}

// swapMuscleArgs rewrites a MUSCLE profile-mode invocation into this
// command's native arguments. Anything else passes through untouched.
func swapMuscleArgs(args []string) []string {
	muscle := false
	for _, arg := range args {
		if arg == "-profile" || arg == "-in1" || arg == "-in2" {
			muscle = true
			break
		}
	}
	if !muscle {
		return args
	}

	swapped := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-profile", "-quiet", "-in1":
			// -in1 is the positional query argument; quiet mode is
			// irrelevant since nothing is logged anyway.
		case "-in2":
			swapped = append(swapped, "--reference-alignment")
		default:
			swapped = append(swapped, args[i])
		}
	}
	return swapped
}

func usage() {
	fmt.Fprintf(os.Stderr,
		"Usage: %s [flags] query-fasta-file --reference-alignment path\n",
		os.Args[0])
	pflag.PrintDefaults()
	os.Exit(1)
}

func fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}
