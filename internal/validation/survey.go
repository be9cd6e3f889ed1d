package validation

import "fmt"

// SurveyRatings are the 1-5 ratings of a satisfaction survey.
type SurveyRatings struct {
	OverallSatisfaction    int
	RecommendationAccuracy int
	SystemUsability        int
	MajorSatisfaction      *int
}

func ValidateSurvey(r SurveyRatings) Result {
	var res Result
	check := func(label string, v int) {
		if v < 1 || v > 5 {
			res.add(KindSurveyRating, fmt.Sprintf("%s가 1-5 범위를 벗어남", label), fmt.Sprintf("%s를 1-5 사이로 선택해주세요.", label))
		}
	}
	check("전체 만족도", r.OverallSatisfaction)
	check("정확도 평가", r.RecommendationAccuracy)
	check("유용성 평가", r.SystemUsability)
	if r.MajorSatisfaction != nil {
		check("전공 만족도", *r.MajorSatisfaction)
	}
	return res.finish()
}
