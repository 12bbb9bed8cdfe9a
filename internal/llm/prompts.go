package llm

import (
	"fmt"
	"strings"
)

const generationSchema = `[{ "question_type": "MCQ" or "ShortAnswer", "points": int, "text": "...", "options": {"A": "...", "B": "...", ...} or null, "expected_answer_rubric": "..." }]`

func generationPrompt(req GenerationRequest) Prompt {
	total := req.TotalQuestions()

	details := make([]string, 0, len(req.Structure))
	for _, s := range req.Structure {
		details = append(details, fmt.Sprintf("- %d question(s) of type '%s' (worth %d points each)", s.Count, s.QuestionType, s.Points))
	}

	system := "You are an expert test creator. Generate a set of exam questions based on the user's requirements. " +
		"The output MUST be a valid JSON array of question objects, containing exactly " +
		fmt.Sprintf("%d questions in total. ", total) +
		"The JSON schema must match the following structure: " + generationSchema + " " +
		"If a JSON object is required, wrap the array as {\"questions\": [...]}. " +
		"For ShortAnswer questions, the 'expected_answer_rubric' should contain the model answer or grading criteria. " +
		"For MCQ questions, the 'expected_answer_rubric' should contain the letter of the correct option (e.g., 'C')."

	user := fmt.Sprintf("Generate a total of %d questions on the topic: '%s'. ", total, req.Topic) +
		fmt.Sprintf("The questions should be appropriate for a '%s' level student. ", req.GradeLevel) +
		"The exam structure is as follows:\n" + strings.Join(details, "\n")

	return Prompt{Task: TaskGenerateQuestions, System: system, User: user, QuestionCount: total}
}

func gradingPrompt(question, answer, rubric string, maxPoints int) Prompt {
	system := fmt.Sprintf("You are an objective and fair academic grader. Grade the student's answer against the expected rubric. The maximum score for this question is %d points. ", maxPoints) +
		"The output MUST be a valid JSON object with two keys: 'score' (a float between 0.0 and the maximum points) " +
		"and 'feedback' (a concise explanation for the score)."

	user := fmt.Sprintf("Grade the following student response. The maximum score is %d points.\n\n", maxPoints) +
		"Question: " + question + "\n" +
		"Expected Rubric/Answer: " + rubric + "\n" +
		"Student Answer: " + answer

	return Prompt{Task: TaskGradeAnswer, System: system, User: user, MaxPoints: maxPoints}
}
