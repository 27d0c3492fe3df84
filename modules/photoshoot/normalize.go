package photoshoot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pixshoot-server/modules/provider"
)

// ErrInvalidOutputFormat - 프로바이더 출력이 알려진 형태와 일치하지 않는 경우
var ErrInvalidOutputFormat = errors.New("provider output has unrecognized format")

// NormalizeOutput - 프로바이더 출력을 이미지 URL 문자열로 정규화
// 프로바이더마다 반환 형태가 다르므로 (문자열, 배열, 지연 객체, 맵, 구조체)
// 알려진 형태를 순서대로 대조한다. 순서가 의미를 가진다: 문자열이 가장 흔하고,
// Resolver는 맵/구조체 검사보다 먼저 풀어야 한다.
func NormalizeOutput(ctx context.Context, output interface{}) (string, error) {
	if output == nil {
		return "", fmt.Errorf("%w: nil output", ErrInvalidOutputFormat)
	}

	switch v := output.(type) {
	case string:
		return validateImageURL(v)

	case []string:
		if len(v) == 0 {
			return "", fmt.Errorf("%w: empty string slice", ErrInvalidOutputFormat)
		}
		return validateImageURL(v[0])

	case []interface{}:
		if len(v) == 0 {
			return "", fmt.Errorf("%w: empty slice", ErrInvalidOutputFormat)
		}
		first, ok := v[0].(string)
		if !ok {
			return "", fmt.Errorf("%w: slice element is %T, not string", ErrInvalidOutputFormat, v[0])
		}
		return validateImageURL(first)
	}

	// 지연 출력: 먼저 풀고 다시 정규화
	if resolver, ok := output.(provider.Resolver); ok {
		resolved, err := resolver.Resolve(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to resolve deferred output: %w", err)
		}
		return NormalizeOutput(ctx, resolved)
	}

	if m, ok := output.(map[string]interface{}); ok {
		for _, key := range []string{"imageURL", "image_url", "url"} {
			if raw, exists := m[key]; exists {
				s, ok := raw.(string)
				if !ok {
					return "", fmt.Errorf("%w: map key %q is %T, not string", ErrInvalidOutputFormat, key, raw)
				}
				return validateImageURL(s)
			}
		}
		return "", fmt.Errorf("%w: map has no image URL key", ErrInvalidOutputFormat)
	}

	if obj, ok := output.(provider.ObjectOutput); ok {
		return validateImageURL(obj.PrimaryURL())
	}

	return "", fmt.Errorf("%w: %T", ErrInvalidOutputFormat, output)
}

// validateImageURL - http(s) URL 또는 data:image URL만 허용
func validateImageURL(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty URL", ErrInvalidOutputFormat)
	}

	if strings.HasPrefix(trimmed, "http://") ||
		strings.HasPrefix(trimmed, "https://") ||
		strings.HasPrefix(trimmed, "data:image/") {
		return trimmed, nil
	}

	return "", fmt.Errorf("%w: not an http(s) or data:image URL", ErrInvalidOutputFormat)
}
