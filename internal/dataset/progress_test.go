package dataset

import "testing"

func TestOverallProgressEmpty(t *testing.T) {
	t.Parallel()

	d := newTestDataset(&fakeCodec{})
	got := d.OverallProgress()
	want := Progress{}
	if got != want {
		t.Fatalf("OverallProgress() = %+v, want all zeroes", got)
	}
}

func TestOverallProgressScenario(t *testing.T) {
	t.Parallel()

	// Row A: all tracked fields filled (100). Row B: none (0). Row C: half (50).
	codec := &fakeCodec{records: []Record{
		fullRecord("alpha"),
		{},
		halfRecord("gamma"),
	}}
	d := newTestDataset(codec)
	if err := d.Load(nil); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := d.OverallProgress()
	want := Progress{Total: 3, Completed: 1, NotStarted: 1, InProgress: 1, AverageCompletion: 50}
	if got != want {
		t.Fatalf("OverallProgress() = %+v, want %+v", got, want)
	}
}

func TestOverallProgressAverageRounds(t *testing.T) {
	t.Parallel()

	codec := &fakeCodec{records: []Record{
		fullRecord("a"),
		fullRecord("b"),
		{},
	}}
	d := newTestDataset(codec)
	if err := d.Load(nil); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// (100 + 100 + 0) / 3 = 66.67 → 67
	if got := d.OverallProgress().AverageCompletion; got != 67 {
		t.Fatalf("AverageCompletion = %d, want 67", got)
	}
}
