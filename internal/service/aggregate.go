package service

import (
	"alcyxob/training-app/internal/domain"
	"sort"
)

// ProgramRepetitions is the chart data of one program: exercise labels and their summed repetitions,
// index aligned.
type ProgramRepetitions struct {
	ProgramID      string   `json:"programId"`
	ProgramTitle   string   `json:"programTitle"`
	ExerciseTitles []string `json:"exerciseTitles"`
	Repetitions    []int    `json:"repetitions"`
}

// AggregateReports groups reports by program (ascending program id) and sums executed repetitions
// per exercise in first-seen order. reports must be in creation order: the last report of a
// program names the program and the last report of an exercise names the exercise.
func AggregateReports(reports []domain.Report) []ProgramRepetitions {
	byProgram := make(map[string][]*domain.Report)
	for i := range reports {
		r := &reports[i]
		byProgram[r.ProgramID] = append(byProgram[r.ProgramID], r)
	}

	programIDs := make([]string, 0, len(byProgram))
	for id := range byProgram {
		programIDs = append(programIDs, id)
	}
	sort.Strings(programIDs)

	result := make([]ProgramRepetitions, 0, len(programIDs))
	for _, programID := range programIDs {
		partition := byProgram[programID]

		var order []string
		titles := make(map[string]string)
		sums := make(map[string]int)
		for _, r := range partition {
			if _, seen := sums[r.ExerciseID]; !seen {
				order = append(order, r.ExerciseID)
			}
			titles[r.ExerciseID] = r.ExerciseTitle
			sums[r.ExerciseID] += r.ExecutedRepetitions
		}

		entry := ProgramRepetitions{
			ProgramID:      programID,
			ProgramTitle:   partition[len(partition)-1].ProgramTitle,
			ExerciseTitles: make([]string, len(order)),
			Repetitions:    make([]int, len(order)),
		}
		for i, exerciseID := range order {
			entry.ExerciseTitles[i] = titles[exerciseID]
			entry.Repetitions[i] = sums[exerciseID]
		}
		result = append(result, entry)
	}
	return result
}
