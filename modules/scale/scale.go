package scale

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Reference - 제품 실측 치수에서 유도한 스케일 가이드
type Reference struct {
	VolumeBucket string
	GripBucket   string
	Sentence     string
}

// Compute - 치수 JSONB에서 스케일 가이드 계산
// 치수 자체가 없으면 빈 문장을 반환한다. 필드가 빠졌거나 숫자가 아니면
// 0으로 취급되어 최소 버킷으로 떨어진다 - 기존 동작과의 프롬프트 호환을
// 위해 유지하는 알려진 동작이며, 수정하지 말 것.
func Compute(dims map[string]interface{}) Reference {
	if len(dims) == 0 {
		return Reference{}
	}

	unit := strings.ToLower(strings.TrimSpace(toString(dims["unit"])))
	factor := unitFactor(unit)

	widthCm := toFloat(dims["width"]) * factor
	lengthCm := toFloat(dims["length"]) * factor
	depthCm := toFloat(dims["depth"]) * factor

	volume := widthCm * lengthCm * depthCm
	maxDim := widthCm
	if lengthCm > maxDim {
		maxDim = lengthCm
	}
	if depthCm > maxDim {
		maxDim = depthCm
	}

	ref := Reference{
		VolumeBucket: volumeBucket(volume),
		GripBucket:   gripBucket(maxDim),
	}
	ref.Sentence = fmt.Sprintf("The product is %s and %s.", ref.VolumeBucket, ref.GripBucket)
	return ref
}

// unitFactor - cm 환산 계수 (모르는 단위는 cm로 간주)
func unitFactor(unit string) float64 {
	switch unit {
	case "in", "inch", "inches":
		return 2.54
	case "mm":
		return 0.1
	default:
		return 1.0
	}
}

// volumeBucket - 부피(cm³) 구간별 비교 문구, 경계값은 상위 버킷
func volumeBucket(volume float64) string {
	switch {
	case volume < 20:
		return "smaller than a matchbox"
	case volume < 100:
		return "about the size of a small jewelry box"
	case volume < 500:
		return "about the size of a smartphone"
	case volume < 1000:
		return "about the size of a paperback book"
	case volume < 2000:
		return "roughly the size of a tablet device"
	default:
		return "larger than a standard book"
	}
}

// gripBucket - 최장 변(cm) 구간별 파지 문구
func gripBucket(maxDim float64) string {
	switch {
	case maxDim < 5:
		return "fits between a thumb and finger"
	case maxDim < 10:
		return "fits comfortably in the palm"
	case maxDim < 15:
		return "requires a full hand grip"
	default:
		return "requires both hands to hold"
	}
}

// toFloat - JSONB 숫자 모양들을 float64로 변환 (실패 시 0)
func toFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}

// toString - JSONB 문자열 변환 (실패 시 빈 문자열)
func toString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}
