package provider

import "context"

// Request - 모든 이미지 프로바이더에 전달되는 정규화된 생성 요청
type Request struct {
	Prompt          string   // 스케일 문장 포함, 최종 프롬프트
	Seed            int64    // 브랜치별 시드 (base + branch index)
	ReferenceImages []string // 참조 이미지 URL 또는 data URL
	ReferenceTags   []string // 프롬프트에서의 참조 태그 (제품/모델)
	AspectRatio     string
}

// Generator - 이미지 생성 프로바이더 계약
// 반환 타입은 프로바이더마다 다르다: 문자열 URL, data URL, 배열,
// Resolver 핸들, 구조화된 오브젝트. 호출 측의 정규화 단계가 모양을 맞춘다.
type Generator interface {
	Generate(ctx context.Context, req Request) (interface{}, error)
}

// Resolver - 지연 해석되는 출력 핸들
type Resolver interface {
	Resolve(ctx context.Context) (interface{}, error)
}

// ObjectOutput - 이미지 위치 필드를 가진 구조화된 출력
type ObjectOutput interface {
	PrimaryURL() string
}
