package participant

import (
	"context"
	"fmt"
	"reflect"
	"testing"
)

func TestLoadAllParallelMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 1; i <= 5; i++ {
		content := "spelling,rt\n"
		for j := 0; j < 10; j++ {
			content += fmt.Sprintf("item%02d,%d\n", j, 400+i*10+j)
		}
		paths = append(paths, writeParticipantFile(t, dir, fmt.Sprintf("pp%02d.csv", i), content))
	}

	sequential, err := LoadAll(paths)
	if err != nil {
		t.Fatalf("sequential load: %v", err)
	}
	parallel, err := LoadAllParallel(context.Background(), paths, 3)
	if err != nil {
		t.Fatalf("parallel load: %v", err)
	}
	if !reflect.DeepEqual(sequential, parallel) {
		t.Fatalf("parallel load differs from sequential load")
	}
}

func TestLoadAllParallelPropagatesErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeParticipantFile(t, dir, "pp01.csv", "spelling,rt\nkat,455\n")
	bad := writeParticipantFile(t, dir, "pp02.csv", "spelling,latency\nkat,455\n")
	if _, err := LoadAllParallel(context.Background(), []string{good, bad}, 2); err == nil {
		t.Fatalf("expected error from unreadable participant file")
	}
}
