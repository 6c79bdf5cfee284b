package scenes

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func useHelper(t *testing.T, mode string, captured *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append([]string(nil), args...)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "SCENES_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

func TestDetectorArgs(t *testing.T) {
	args := strings.Join(NewFFmpegDetector("", 0).Args("/media/movie.mkv", 30), " ")
	for _, fragment := range []string{"-i /media/movie.mkv", "-map 0:v:0", "scale=320:-2", `gt(scene\,0.3)`, "metadata=print:file=-", "-f null -"} {
		if !strings.Contains(args, fragment) {
			t.Fatalf("expected %q in %q", fragment, args)
		}
	}
}

func TestDetectBuildsContiguousBoundaries(t *testing.T) {
	var captured []string
	useHelper(t, "cuts", &captured)

	boundaries, err := NewFFmpegDetector("ffmpeg", 160).Detect(context.Background(), Source{Path: "/media/movie.mkv", Duration: "20.000000"}, 50)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	want := [][2]string{{"0", "4.004"}, {"4.004", "11.5115"}, {"11.5115", "20.000000"}}
	if len(boundaries) != len(want) {
		t.Fatalf("expected %d boundaries, got %+v", len(want), boundaries)
	}
	for i, b := range boundaries {
		if b.Start.Raw != want[i][0] || b.End.Raw != want[i][1] {
			t.Fatalf("boundary %d = (%s, %s), want %v", i, b.Start, b.End, want[i])
		}
	}
	if !strings.Contains(strings.Join(captured, " "), `gt(scene\,0.5)`) {
		t.Fatalf("expected threshold mapped to 0.5, got %v", captured)
	}
}

func TestDetectWithoutCutsYieldsSingleScene(t *testing.T) {
	useHelper(t, "none", nil)
	boundaries, err := NewFFmpegDetector("ffmpeg", 0).Detect(context.Background(), Source{Path: "/media/still.mkv", Duration: "8.5"}, 90)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if len(boundaries) != 1 || boundaries[0].Start.Raw != "0" || boundaries[0].End.Raw != "8.5" {
		t.Fatalf("expected one full-length scene, got %+v", boundaries)
	}
}

func TestDetectWithoutDurationDropsOpenTail(t *testing.T) {
	useHelper(t, "cuts", nil)
	boundaries, err := NewFFmpegDetector("ffmpeg", 0).Detect(context.Background(), Source{Path: "/media/movie.mkv"}, 30)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if len(boundaries) != 2 || boundaries[1].End.Raw != "11.5115" {
		t.Fatalf("expected scenes up to the last cut, got %+v", boundaries)
	}
}

func TestDetectReportsFailure(t *testing.T) {
	useHelper(t, "fail", nil)
	_, err := NewFFmpegDetector("ffmpeg", 0).Detect(context.Background(), Source{Path: "/media/broken.mkv", Duration: "1"}, 30)
	if err == nil || !strings.Contains(err.Error(), "Invalid data") {
		t.Fatalf("expected ffmpeg failure with stderr detail, got %v", err)
	}
}

func TestDetectValidatesInput(t *testing.T) {
	d := NewFFmpegDetector("ffmpeg", 0)
	if _, err := d.Detect(context.Background(), Source{}, 30); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := d.Detect(context.Background(), Source{Path: "x.mkv"}, 0); err == nil {
		t.Fatal("expected error for zero threshold")
	}
}

func TestBoundariesFromCutsSkipsDegenerateCuts(t *testing.T) {
	end := tc("10")
	got := boundariesFromCuts([]Timecode{tc("0"), tc("3"), tc("3"), tc("2"), tc("10"), tc("12")}, &end)
	if len(got) != 2 || got[0].End.Raw != "3" || got[1].Start.Raw != "3" || got[1].End.Raw != "10" {
		t.Fatalf("unexpected boundaries: %+v", got)
	}
}

func TestParseTimecode(t *testing.T) {
	if _, err := ParseTimecode("abc"); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := ParseTimecode("-1"); err == nil {
		t.Fatal("expected negative timecode to fail")
	}
	for _, raw := range []string{"nan", "NaN", "inf", "+Inf"} {
		if _, err := ParseTimecode(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
	got, err := ParseTimecode(" 1.500000 ")
	if err != nil || got.Raw != "1.500000" || got.Seconds != 1.5 {
		t.Fatalf("unexpected timecode %+v err=%v", got, err)
	}
}

func TestScanCutsSkipsNonFinitePositions(t *testing.T) {
	input := "frame:0 pts_time:2\nframe:1 pts_time:nan\nframe:2 pts_time:5\n"
	cuts, err := scanCuts(strings.NewReader(input))
	if err != nil {
		t.Fatalf("scanCuts: %v", err)
	}
	end := tc("10")
	got := boundariesFromCuts(cuts, &end)
	want := [][2]string{{"0", "2"}, {"2", "5"}, {"5", "10"}}
	if len(got) != len(want) {
		t.Fatalf("boundaries = %v", got)
	}
	for i, b := range got {
		if b.Start.Raw != want[i][0] || b.End.Raw != want[i][1] {
			t.Fatalf("boundary %d = %v, want %v", i, b, want[i])
		}
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("SCENES_HELPER_MODE") {
	case "cuts":
		fmt.Fprintln(os.Stdout, "frame:0    pts:48048   pts_time:4.004")
		fmt.Fprintln(os.Stdout, "lavfi.scene_score=0.612")
		fmt.Fprintln(os.Stdout, "frame:1    pts:138138  pts_time:11.5115")
		fmt.Fprintln(os.Stdout, "lavfi.scene_score=0.801")
		os.Exit(0)
	case "none":
		os.Exit(0)
	default:
		fmt.Fprint(os.Stderr, "/media/broken.mkv: Invalid data found when processing input")
		os.Exit(1)
	}
}
