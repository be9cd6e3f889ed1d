package riasec

// MaxLikert is the top of the 1-5 answer scale.
const MaxLikert = 5

type Question struct {
	ID       int      `json:"id"`
	Text     string   `json:"text"`
	Category Category `json:"type"`
}

type AnswerOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// QuestionTable maps a question id to its category.
type QuestionTable map[int]Category

var questions = []Question{
	{ID: 1, Text: "기계나 도구를 다루는 작업에 흥미를 느끼시나요?", Category: Realistic},
	{ID: 2, Text: "손으로 무언가를 만들거나 조립하는 것을 좋아하시나요?", Category: Realistic},
	{ID: 3, Text: "야외에서 활동하는 것을 선호하시나요?", Category: Realistic},
	{ID: 4, Text: "복잡한 문제를 논리적으로 분석하는 것을 즐기시나요?", Category: Investigative},
	{ID: 5, Text: "새로운 지식을 탐구하고 연구하는 것에 흥미가 있으신가요?", Category: Investigative},
	{ID: 6, Text: "과학이나 수학 관련 과목을 좋아하시나요?", Category: Investigative},
	{ID: 7, Text: "창작 활동이나 예술적 표현을 즐기시나요?", Category: Artistic},
	{ID: 8, Text: "독창적이고 새로운 아이디어를 생각해내는 것을 좋아하시나요?", Category: Artistic},
	{ID: 9, Text: "미술, 음악, 문학 등 예술 분야에 관심이 있으신가요?", Category: Artistic},
	{ID: 10, Text: "다른 사람들을 도와주는 일에 보람을 느끼시나요?", Category: Social},
	{ID: 11, Text: "사람들과 대화하고 교류하는 것을 즐기시나요?", Category: Social},
	{ID: 12, Text: "팀워크를 중시하고 협업을 선호하시나요?", Category: Social},
	{ID: 13, Text: "리더십을 발휘하고 다른 사람들을 이끄는 것을 좋아하시나요?", Category: Enterprising},
	{ID: 14, Text: "경쟁적인 환경에서 성과를 내는 것에 자신이 있으신가요?", Category: Enterprising},
	{ID: 15, Text: "사업이나 경영 분야에 관심이 있으신가요?", Category: Enterprising},
	{ID: 16, Text: "체계적이고 규칙적인 업무를 선호하시나요?", Category: Conventional},
	{ID: 17, Text: "정확성과 세부사항을 중시하시나요?", Category: Conventional},
	{ID: 18, Text: "안정적이고 예측 가능한 환경을 선호하시나요?", Category: Conventional},
}

var answerOptions = []AnswerOption{
	{Value: 5, Label: "매우 그렇다"},
	{Value: 4, Label: "그렇다"},
	{Value: 3, Label: "보통이다"},
	{Value: 2, Label: "그렇지 않다"},
	{Value: 1, Label: "전혀 그렇지 않다"},
}

// Questions returns a copy of the 18 assessment questions.
func Questions() []Question {
	return append([]Question(nil), questions...)
}

func AnswerOptions() []AnswerOption {
	return append([]AnswerOption(nil), answerOptions...)
}

// DefaultTable is the deployed 3-questions-per-category table.
func DefaultTable() QuestionTable {
	t := make(QuestionTable, len(questions))
	for _, q := range questions {
		t[q.ID] = q.Category
	}
	return t
}

// Count is the number of table questions in category c.
func (t QuestionTable) Count(c Category) int {
	n := 0
	for _, qc := range t {
		if qc == c {
			n++
		}
	}
	return n
}
