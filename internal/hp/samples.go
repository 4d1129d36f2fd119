package hp

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultSamplesPath is the samples file consulted when a sequence argument is
// a sample number.
const DefaultSamplesPath = "sample_seqs.txt"

// LoadSamples reads one protein sequence per non-empty line.
func LoadSamples(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var samples []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		samples = append(samples, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// ResolveSequence interprets arg either as a 1-based sample number in the
// samples file or as a literal protein sequence. It returns the protein text
// and its HP classification.
func ResolveSequence(arg, samplesPath string) (string, Sequence, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", "", ErrEmptySequence
	}
	protein := arg
	if k, err := strconv.Atoi(arg); err == nil {
		if samplesPath == "" {
			samplesPath = DefaultSamplesPath
		}
		samples, err := LoadSamples(samplesPath)
		if err != nil {
			return "", "", fmt.Errorf("load samples: %w", err)
		}
		if k < 1 || k > len(samples) {
			return "", "", fmt.Errorf("sample %d out of range [1, %d]", k, len(samples))
		}
		protein = samples[k-1]
	}
	// Chains already written in the HP alphabet are not reclassified.
	if seq, err := ParseSequence(protein); err == nil {
		return protein, seq, nil
	}
	seq, err := FromProtein(protein)
	if err != nil {
		return "", "", err
	}
	return protein, seq, nil
}
