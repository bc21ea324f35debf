// Command aln aligns a FASTQ read stream (or a single literal read) against
// a g-tree index and reference FASTA, writing SAM records (spec §6).
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/biogo/hts/sam"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
	"v.io/x/lib/cmdline"

	"github.com/grailbio/gtree/align"
	"github.com/grailbio/gtree/encoding/fastq"
	"github.com/grailbio/gtree/gtree"
	"github.com/grailbio/gtree/refio"
	"github.com/grailbio/gtree/swext"
)

func newCmdAln() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "aln",
		Short: "Align a FASTQ stream (or a single literal read) against a g-tree index",
	}
	ixPath := cmd.Flags.String("ix", "", "Input index path (required)")
	refBase := cmd.Flags.String("r", "", "Reference base path, without .fa/.refix (required)")
	fastqPath := cmd.Flags.String("i", "", "Input FASTQ path; mutually exclusive with -rl")
	literalRead := cmd.Flags.String("rl", "", "Align a single literal read sequence instead of a FASTQ stream")
	outPath := cmd.Flags.String("o", "", "Output SAM path; default stdout")
	outFormat := cmd.Flags.String("of", "SAM", "Output format; only SAM is implemented (spec §6: BAM not required)")
	pe := cmd.Flags.String("pe", "", "Paired FASTQ inputs \"a b\"; each mate is seeded and extended independently")

	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if *ixPath == "" || *refBase == "" {
			return fmt.Errorf("aln: -ix and -r are required")
		}
		if strings.ToUpper(*outFormat) != "SAM" {
			return fmt.Errorf("aln: -of %q not supported; only SAM is implemented", *outFormat)
		}
		if (*fastqPath == "") == (*literalRead == "") && *pe == "" {
			return fmt.Errorf("aln: exactly one of -i or -rl is required")
		}
		return runAln(alnOpts{
			ixPath:      *ixPath,
			refBase:     *refBase,
			fastqPath:   *fastqPath,
			literalRead: *literalRead,
			outPath:     *outPath,
			pe:          *pe,
		})
	})
	return cmd
}

type alnOpts struct {
	ixPath, refBase, fastqPath, literalRead, outPath, pe string
}

func runAln(opts alnOpts) error {
	ixFile, err := os.Open(opts.ixPath)
	if err != nil {
		return errors.Wrap(err, "aln: opening index")
	}
	ix, err := gtree.Deserialize(ixFile)
	ixFile.Close()
	if err != nil {
		return errors.Wrap(err, "aln: loading index")
	}

	ref, err := refio.Load(opts.refBase)
	if err != nil {
		return errors.Wrap(err, "aln: loading reference")
	}
	defer ref.Close()

	refs, samRefs, err := buildSamReferences(ref)
	if err != nil {
		return err
	}

	aligner := align.NewAligner(ix, ref, swext.New(), refs)

	out := os.Stdout
	if opts.outPath != "" {
		f, err := os.Create(opts.outPath)
		if err != nil {
			return errors.Wrap(err, "aln: creating output")
		}
		defer f.Close()
		out = f
	}
	writer := align.NewWriter(out)
	if err := writer.WriteHeader(samRefs); err != nil {
		return errors.Wrap(err, "aln: writing SAM header")
	}

	switch {
	case opts.literalRead != "":
		read := fastq.Read{ID: "literal", Seq: opts.literalRead, Qual: strings.Repeat("I", len(opts.literalRead))}
		if err := alignAndWrite(aligner, writer, read); err != nil {
			return err
		}
	case opts.pe != "":
		fields := strings.Fields(opts.pe)
		if len(fields) != 2 {
			return fmt.Errorf("aln: -pe requires exactly two paths, got %q", opts.pe)
		}
		if err := alignFastqPair(aligner, writer, fields[0], fields[1]); err != nil {
			return err
		}
	default:
		if err := alignFastqFile(aligner, writer, opts.fastqPath); err != nil {
			return err
		}
	}

	return writer.Flush()
}

func alignFastqFile(aligner *align.Aligner, writer *align.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "aln: opening FASTQ %q", path)
	}
	defer f.Close()

	scanner := fastq.NewScanner(f, fastq.All)
	var read fastq.Read
	for scanner.Scan(&read) {
		if err := alignAndWrite(aligner, writer, read); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "aln: reading FASTQ %q", path)
	}
	return nil
}

// alignFastqPair aligns two mate FASTQ files kept in lockstep by
// fastq.PairScanner, which catches one file running out ahead of the other
// (fastq.ErrDiscordant) instead of silently aligning the longer file's tail
// as if it had no mate.
func alignFastqPair(aligner *align.Aligner, writer *align.Writer, path1, path2 string) error {
	f1, err := os.Open(path1)
	if err != nil {
		return errors.Wrapf(err, "aln: opening FASTQ %q", path1)
	}
	defer f1.Close()
	f2, err := os.Open(path2)
	if err != nil {
		return errors.Wrapf(err, "aln: opening FASTQ %q", path2)
	}
	defer f2.Close()

	scanner := fastq.NewPairScanner(f1, f2, fastq.All)
	var r1, r2 fastq.Read
	for scanner.Scan(&r1, &r2) {
		if err := alignAndWrite(aligner, writer, r1); err != nil {
			return err
		}
		if err := alignAndWrite(aligner, writer, r2); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "aln: reading FASTQ pair %q, %q", path1, path2)
	}
	return nil
}

func alignAndWrite(aligner *align.Aligner, writer *align.Writer, read fastq.Read) error {
	records, err := aligner.AlignRead(read)
	if err != nil {
		return errors.Wrapf(err, "aln: aligning read %q", read.ID)
	}
	for _, rec := range records {
		if err := writer.WriteRecord(rec, read.Seq, read.Qual); err != nil {
			return errors.Wrap(err, "aln: writing SAM record")
		}
	}
	return nil
}

func buildSamReferences(ref *refio.Ref) (map[string]*sam.Reference, []*sam.Reference, error) {
	entries := ref.Entries()
	refs := make(map[string]*sam.Reference, len(entries))
	ordered := make([]*sam.Reference, 0, len(entries))
	for _, e := range entries {
		r, err := sam.NewReference(e.Desc, "", "", int(e.ContigLen), nil, nil)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "aln: building @SQ entry for %q", e.Desc)
		}
		refs[e.Desc] = r
		ordered = append(ordered, r)
	}
	return refs, ordered, nil
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdAln())
	log.Debug.Printf("exiting")
}
