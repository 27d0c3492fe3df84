package scale_test

import (
	"math"
	"testing"

	"pixshoot-server/modules/scale"
)

func dims(w, l, d float64, unit string) map[string]interface{} {
	return map[string]interface{}{"width": w, "length": l, "depth": d, "unit": unit}
}

func TestComputeVolumeBuckets(t *testing.T) {
	cases := []struct {
		name string
		dims map[string]interface{}
		want string
	}{
		{"matchbox", dims(2, 2, 2, "cm"), "smaller than a matchbox"},
		{"jewelry box", dims(4, 4, 4, "cm"), "about the size of a small jewelry box"},
		{"smartphone", dims(7, 7, 7, "cm"), "about the size of a smartphone"},
		{"paperback", dims(8, 8, 8, "cm"), "about the size of a paperback book"},
		{"tablet", dims(12, 12, 12, "cm"), "roughly the size of a tablet device"},
		{"large", dims(20, 20, 20, "cm"), "larger than a standard book"},
		{"boundary goes up", dims(1, 4, 5, "cm"), "about the size of a small jewelry box"}, // volume 20 정확히 경계
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scale.Compute(tc.dims)
			if got.VolumeBucket != tc.want {
				t.Fatalf("volume bucket = %q, want %q", got.VolumeBucket, tc.want)
			}
		})
	}
}

func TestComputeGripBuckets(t *testing.T) {
	cases := []struct {
		name string
		dims map[string]interface{}
		want string
	}{
		{"pinch", dims(4, 2, 1, "cm"), "fits between a thumb and finger"},
		{"palm", dims(8, 2, 1, "cm"), "fits comfortably in the palm"},
		{"full grip", dims(14, 2, 1, "cm"), "requires a full hand grip"},
		{"both hands", dims(30, 2, 1, "cm"), "requires both hands to hold"},
		{"max of all dims", dims(1, 1, 12, "cm"), "requires a full hand grip"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scale.Compute(tc.dims)
			if got.GripBucket != tc.want {
				t.Fatalf("grip bucket = %q, want %q", got.GripBucket, tc.want)
			}
		})
	}
}

func TestComputeComposedSentence(t *testing.T) {
	got := scale.Compute(dims(8, 8, 8, "cm"))
	want := "The product is about the size of a paperback book and fits comfortably in the palm."
	if got.Sentence != want {
		t.Fatalf("sentence = %q, want %q", got.Sentence, want)
	}
}

func TestComputeUnitNormalization(t *testing.T) {
	inches := scale.Compute(dims(3, 3, 3, "in"))
	cm := scale.Compute(dims(3*2.54, 3*2.54, 3*2.54, "cm"))
	if inches.Sentence != cm.Sentence {
		t.Fatalf("inch/cm mismatch: %q vs %q", inches.Sentence, cm.Sentence)
	}

	mm := scale.Compute(dims(80, 80, 80, "mm"))
	cm8 := scale.Compute(dims(8, 8, 8, "cm"))
	if mm.Sentence != cm8.Sentence {
		t.Fatalf("mm/cm mismatch: %q vs %q", mm.Sentence, cm8.Sentence)
	}
}

func TestComputeUnknownUnitDefaultsToCm(t *testing.T) {
	odd := scale.Compute(dims(8, 8, 8, "furlong"))
	cm := scale.Compute(dims(8, 8, 8, "cm"))
	if odd.Sentence != cm.Sentence {
		t.Fatalf("unknown unit should behave like cm: %q vs %q", odd.Sentence, cm.Sentence)
	}
}

func TestComputeMissingDimensions(t *testing.T) {
	if got := scale.Compute(nil); got.Sentence != "" {
		t.Fatalf("expected empty sentence for nil dims, got %q", got.Sentence)
	}
	if got := scale.Compute(map[string]interface{}{}); got.Sentence != "" {
		t.Fatalf("expected empty sentence for empty dims, got %q", got.Sentence)
	}

	// 필드가 빠지면 0으로 취급되어 최소 버킷으로 떨어진다 (기존 동작 유지)
	got := scale.Compute(map[string]interface{}{"width": 10.0, "unit": "cm"})
	if got.VolumeBucket != "smaller than a matchbox" {
		t.Fatalf("missing fields should degrade to smallest volume bucket, got %q", got.VolumeBucket)
	}
	if got.GripBucket != "requires a full hand grip" {
		t.Fatalf("grip should still use the one present dimension, got %q", got.GripBucket)
	}
}

func TestComputeNonNumericTreatedAsZero(t *testing.T) {
	got := scale.Compute(map[string]interface{}{
		"width": "not-a-number", "length": "8", "depth": 8.0, "unit": "cm",
	})
	if got.VolumeBucket != "smaller than a matchbox" {
		t.Fatalf("non-numeric width should zero the volume, got %q", got.VolumeBucket)
	}
	// 문자열 "8"은 숫자로 강제 변환된다
	if got.GripBucket != "fits comfortably in the palm" {
		t.Fatalf("numeric string should still count for grip, got %q", got.GripBucket)
	}
}

func TestComputeMonotonicity(t *testing.T) {
	order := func(bucket string) int {
		buckets := []string{
			"smaller than a matchbox",
			"about the size of a small jewelry box",
			"about the size of a smartphone",
			"about the size of a paperback book",
			"roughly the size of a tablet device",
			"larger than a standard book",
		}
		for i, b := range buckets {
			if b == bucket {
				return i
			}
		}
		t.Fatalf("unknown bucket %q", bucket)
		return -1
	}

	prev := -1
	for side := 1.0; side <= 20; side += 0.5 {
		got := scale.Compute(dims(side, side, side, "cm"))
		idx := order(got.VolumeBucket)
		if idx < prev {
			t.Fatalf("volume bucket regressed at side=%f", side)
		}
		prev = idx
	}

	if math.Cbrt(20) >= 5 {
		t.Fatal("sanity: cube side for boundary volume should stay in pinch range")
	}
}
