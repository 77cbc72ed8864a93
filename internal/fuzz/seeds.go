package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"slices"
	"testing"
)

// maxSeedBytes caps seeds and fuzz inputs; patterns are short.
const maxSeedBytes = 4 << 10

// grammarSeeds covers every construct once, valid and broken.
var grammarSeeds = []string{
	"",
	"x",
	`(\w{5,6})|(\d{4})`,
	"[a-]",
	"[-a]",
	"[a-c-e]",
	`[\]-\\]`,
	"a{0}",
	"a*?",
	"a||b",
	"((((((a))))))",
	"[",
	"(",
	`\`,
	"a{99999999999}",
	"\xff\xfe",
	"\u00e9",
	"e\u0301",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range grammarSeeds {
		f.Add([]byte(s))
	}
	for _, line := range testdataSeeds(os.DirFS("../../testdata")) {
		f.Add(line)
	}
}

// testdataSeeds returns every non-blank, non-comment line of the *.pat files
// under root. A missing root yields no seeds.
func testdataSeeds(root fs.FS) [][]byte {
	paths, err := fs.Glob(root, "*/*.pat")
	if err != nil {
		return nil
	}
	var seeds [][]byte
	for _, path := range paths {
		src, err := fs.ReadFile(root, path)
		if err != nil {
			continue
		}
		for line := range bytes.SplitSeq(src, []byte{'\n'}) {
			line = bytes.TrimSpace(line)
			if len(line) == 0 || line[0] == '#' {
				continue
			}
			seeds = append(seeds, clampInput(line))
		}
	}
	return seeds
}

// clampInput copies src, cut to maxSeedBytes; the fuzzer owns its input buffer.
func clampInput(src []byte) []byte {
	return slices.Clone(src[:min(len(src), maxSeedBytes)])
}
