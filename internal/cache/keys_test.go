package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "quiz",
			objectType:  "detail",
			identifier:  "01HZX",
			expectedKey: "quizforge:quiz:detail:01HZX",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "quiz",
			objectType:  "detail",
			identifier:  "01HZX",
			paramsKey:   []string{},
			expectedKey: "quizforge:quiz:detail:01HZX",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "flashcards",
			objectType:  "list",
			identifier:  "all",
			paramsKey:   []string{"topic-go", "page_1"},
			expectedKey: "quizforge:flashcards:list:all:topic-go_page_1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}

func TestScratchKey(t *testing.T) {
	if got := ScratchKey(SlotCurrentQuiz); got != "quizforge:scratch:slot:current_quiz" {
		t.Errorf("ScratchKey() = %v", got)
	}
}
