package app

import "nusantara-culture-service/internal/domain"

type gradedAnswers struct {
	score   int
	correct int
	key     []int
}

// grade validates answers against quiz content and scores them. Each correct answer earns the
// question's weight, so an unweighted quiz scores the number of correct answers.
func grade(quiz domain.Quiz, answers []int) (gradedAnswers, error) {
	if len(answers) != len(quiz.Questions) {
		return gradedAnswers{}, domain.Invalid("answers", "expected %d answers, got %d", len(quiz.Questions), len(answers))
	}

	out := gradedAnswers{key: make([]int, len(quiz.Questions))}
	for i, question := range quiz.Questions {
		chosen := answers[i]
		if chosen < 0 || chosen >= len(question.Options) {
			return gradedAnswers{}, domain.Invalid("answers", "answer %d must be between 0 and %d", i, len(question.Options)-1)
		}
		out.key[i] = question.CorrectIndex
		if chosen == question.CorrectIndex {
			out.correct++
			out.score += question.Weight()
		}
	}
	return out, nil
}
