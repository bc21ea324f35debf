// Command ix builds, masks, prunes, and inspects g-tree index files (spec
// §6), following the subcommand-dispatch convention of the teacher's
// `cmd/bio-pamtool/cmd`.
package main

import (
	"fmt"
	"os"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"v.io/x/lib/cmdline"

	"github.com/grailbio/gtree/gtree"
)

func newCmdBuild() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "build",
		Short: "Build a fresh g-tree index from a reference FASTA",
	}
	refPath := cmd.Flags.String("r", "", "Input reference FASTA path (required)")
	outPath := cmd.Flags.String("o", "", "Output index path (required)")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if *refPath == "" || *outPath == "" {
			return fmt.Errorf("ix build: -r and -o are required")
		}
		return runBuild(*refPath, *outPath)
	})
	return cmd
}

func newCmdMask() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "mask",
		Short: "Intersect an existing index against a second FASTA",
	}
	inPath := cmd.Flags.String("ix", "", "Input index path (required)")
	refPath := cmd.Flags.String("r", "", "Masking FASTA path (required)")
	outPath := cmd.Flags.String("o", "", "Output index path (required)")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if *inPath == "" || *refPath == "" || *outPath == "" {
			return fmt.Errorf("ix mask: -ix, -r, and -o are required")
		}
		return runMask(*inPath, *refPath, *outPath)
	})
	return cmd
}

func newCmdPrune() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "prune",
		Short: "Drop structurally redundant paths from an index",
	}
	inPath := cmd.Flags.String("ix", "", "Input index path (required)")
	outPath := cmd.Flags.String("o", "", "Output index path (required)")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if *inPath == "" || *outPath == "" {
			return fmt.Errorf("ix prune: -ix and -o are required")
		}
		return runPrune(*inPath, *outPath)
	})
	return cmd
}

func newCmdStat() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "stat",
		Short: "Print node counts and descriptors for an index",
	}
	inPath := cmd.Flags.String("ix", "", "Input index path (required)")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if *inPath == "" {
			return fmt.Errorf("ix stat: -ix is required")
		}
		return runStat(*inPath)
	})
	return cmd
}

func runBuild(refPath, outPath string) error {
	f, err := os.Open(refPath)
	if err != nil {
		return err
	}
	defer f.Close()

	ix := gtree.NewIndex()
	if err := gtree.Build(ix, f); err != nil {
		return err
	}
	return writeIndex(ix, outPath)
}

func runMask(inPath, refPath, outPath string) error {
	ix, err := readIndex(inPath)
	if err != nil {
		return err
	}
	f, err := os.Open(refPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gtree.Mask(ix, f); err != nil {
		return err
	}
	return writeIndex(ix, outPath)
}

func runPrune(inPath, outPath string) error {
	ix, err := readIndex(inPath)
	if err != nil {
		return err
	}
	gtree.Prune(ix)
	return writeIndex(ix, outPath)
}

func runStat(inPath string) error {
	ix, err := readIndex(inPath)
	if err != nil {
		return err
	}
	fmt.Printf("nodes: %d\n", ix.Root.Count())
	fmt.Printf("descriptors: %d\n", len(ix.Descs))
	for i, desc := range ix.Descs {
		fmt.Printf("  [%d] %s\n", i, desc)
	}
	return nil
}

func readIndex(path string) (*gtree.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gtree.Deserialize(f)
}

func writeIndex(ix *gtree.Index, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gtree.Serialize(ix, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(&cmdline.Command{
		Name:  "ix",
		Short: "Build, mask, prune, and inspect g-tree index files",
		Children: []*cmdline.Command{
			newCmdBuild(),
			newCmdMask(),
			newCmdPrune(),
			newCmdStat(),
		},
	})
	log.Debug.Printf("exiting")
}
