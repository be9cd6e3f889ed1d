package promptstyle

import "strings"

const marker = "MAJORMATCH_PROMPT_STYLE_V1"

// ApplySystem prepends a short shared guidance block to a system prompt.
// mode "json" adds the single-object output rule. Prompts that already carry the block are returned unchanged.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" || strings.Contains(base, marker) {
		return base
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\n대학 전공 상담 서비스의 응답을 작성합니다.")
	b.WriteString("\n시스템과 사용자 지시를 정확히 따르세요.")
	b.WriteString("\n주어진 정보만 근거로 사용하고 사실을 지어내지 마세요.")
	if strings.EqualFold(strings.TrimSpace(mode), "json") {
		b.WriteString("\n스키마에 맞는 JSON 객체 하나만 반환하고 다른 텍스트나 키를 추가하지 마세요.")
	} else {
		b.WriteString("\n한국어로 자연스럽고 간결하게 답하세요.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return b.String()
}
