package riasec

import "strings"

type Major struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Types       []Category `json:"riasecTypes"`
	Careers     []string   `json:"careers"`
	Curriculum  []string   `json:"curriculum"`
}

// Catalog is the closed set of majors a recommendation may name.
type Catalog struct {
	majors []Major
	byName map[string]int
}

func NewCatalog(majors []Major) *Catalog {
	c := &Catalog{majors: append([]Major(nil), majors...), byName: make(map[string]int, len(majors))}
	for i, m := range c.majors {
		c.byName[normalizeName(m.Name)] = i
	}
	return c
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// Contains reports whether name is a catalog major. Whitespace is ignored.
func (c *Catalog) Contains(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.byName[normalizeName(name)]
	return ok
}

// Lookup returns the catalog entry for name.
func (c *Catalog) Lookup(name string) (Major, bool) {
	if c == nil {
		return Major{}, false
	}
	i, ok := c.byName[normalizeName(name)]
	if !ok {
		return Major{}, false
	}
	return c.majors[i], true
}

// Canonical returns the catalog spelling of name, or name unchanged.
func (c *Catalog) Canonical(name string) string {
	if m, ok := c.Lookup(name); ok {
		return m.Name
	}
	return strings.TrimSpace(name)
}

func (c *Catalog) Majors() []Major {
	if c == nil {
		return nil
	}
	return append([]Major(nil), c.majors...)
}

func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.majors))
	for _, m := range c.majors {
		out = append(out, m.Name)
	}
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.majors)
}

// DefaultCatalog is the ten majors of the 창의융합학부.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultMajors)
}

var defaultMajors = []Major{
	{
		ID:          "computer-science",
		Name:        "컴퓨터공학과",
		Description: "소프트웨어 개발, 알고리즘 설계, 시스템 구축 등 컴퓨터 과학의 전반적인 분야를 다룹니다.",
		Types:       []Category{Investigative, Realistic},
		Careers:     []string{"소프트웨어 개발자", "시스템 엔지니어", "데이터 사이언티스트", "AI 연구원"},
		Curriculum:  []string{"프로그래밍", "자료구조", "알고리즘", "데이터베이스", "인공지능"},
	},
	{
		ID:          "software",
		Name:        "소프트웨어학과",
		Description: "소프트웨어 설계, 개발, 유지보수에 특화된 실무 중심의 교육을 제공합니다.",
		Types:       []Category{Investigative, Realistic, Artistic},
		Careers:     []string{"웹 개발자", "모바일 앱 개발자", "게임 개발자", "소프트웨어 아키텍트"},
		Curriculum:  []string{"웹 프로그래밍", "모바일 개발", "소프트웨어 공학", "UI/UX 디자인"},
	},
	{
		ID:          "statistics",
		Name:        "정보통계학과",
		Description: "빅데이터 분석, 통계적 추론, 데이터 마이닝 등 데이터 과학 분야를 전문으로 합니다.",
		Types:       []Category{Investigative, Conventional},
		Careers:     []string{"데이터 분석가", "통계학자", "시장조사원", "리스크 매니저"},
		Curriculum:  []string{"통계학", "데이터 마이닝", "머신러닝", "빅데이터 분석", "R/Python"},
	},
	{
		ID:          "digital-media",
		Name:        "디지털미디어학과",
		Description: "디지털 콘텐츠 제작, 멀티미디어 기술, 인터랙티브 미디어 등을 다룹니다.",
		Types:       []Category{Artistic, Investigative, Enterprising},
		Careers:     []string{"게임 디자이너", "웹 디자이너", "영상 편집자", "UX/UI 디자이너"},
		Curriculum:  []string{"디지털 아트", "3D 모델링", "게임 디자인", "영상 제작", "인터랙션 디자인"},
	},
	{
		ID:          "industrial-engineering",
		Name:        "산업공학과",
		Description: "생산성 향상, 품질 관리, 시스템 최적화 등 산업 시스템을 효율적으로 설계합니다.",
		Types:       []Category{Enterprising, Investigative, Conventional},
		Careers:     []string{"생산관리자", "품질관리자", "경영컨설턴트", "프로젝트 매니저"},
		Curriculum:  []string{"경영과학", "품질관리", "생산계획", "물류관리", "시스템 분석"},
	},
	{
		ID:          "architecture",
		Name:        "건축학과",
		Description: "건축 설계, 도시 계획, 공간 디자인 등 건축 전반의 이론과 실무를 학습합니다.",
		Types:       []Category{Artistic, Realistic, Enterprising},
		Careers:     []string{"건축사", "건축 설계사", "인테리어 디자이너", "도시계획가"},
		Curriculum:  []string{"건축 설계", "구조역학", "건축사", "도시계획", "건축 재료"},
	},
	{
		ID:          "urban-planning",
		Name:        "도시계획학과",
		Description: "도시 개발, 지역 계획, 교통 계획 등 도시 환경의 체계적 계획을 다룹니다.",
		Types:       []Category{Social, Enterprising, Investigative},
		Careers:     []string{"도시계획가", "교통계획가", "지역개발 전문가", "환경계획가"},
		Curriculum:  []string{"도시설계", "교통계획", "환경계획", "GIS", "지역개발론"},
	},
	{
		ID:          "environmental-engineering",
		Name:        "환경공학과",
		Description: "환경 보호, 오염 방지, 지속가능한 개발 등 환경 문제 해결을 위한 공학을 학습합니다.",
		Types:       []Category{Investigative, Social, Realistic},
		Careers:     []string{"환경 엔지니어", "환경 컨설턴트", "환경 연구원", "환경영향평가사"},
		Curriculum:  []string{"환경화학", "수처리공학", "대기오염제어", "폐기물처리", "환경영향평가"},
	},
	{
		ID:          "materials-science",
		Name:        "신소재공학과",
		Description: "첨단 소재 개발, 나노 기술, 재료 특성 분석 등 신소재 분야를 연구합니다.",
		Types:       []Category{Investigative, Realistic},
		Careers:     []string{"소재 연구원", "품질관리자", "기술개발자", "소재 엔지니어"},
		Curriculum:  []string{"재료과학", "나노기술", "세라믹공학", "금속공학", "복합재료"},
	},
	{
		ID:          "chemical-engineering",
		Name:        "화학공학과",
		Description: "화학 반응, 공정 설계, 제품 개발 등 화학 공업의 이론과 응용을 다룹니다.",
		Types:       []Category{Investigative, Realistic, Conventional},
		Careers:     []string{"화학 엔지니어", "공정 엔지니어", "연구개발자", "품질관리자"},
		Curriculum:  []string{"화학공학", "반응공학", "분리공정", "공정제어", "화학공정설계"},
	},
}
