package cli

import "convention-quiz/internal/domain"

// sampleRounds is served when neither Postgres nor a file catalog is configured.
func sampleRounds() []domain.Round {
	return []domain.Round{
		{
			ID:           "round1",
			Kind:         domain.KindSequential,
			Title:        "Round 1: Quick Fire",
			Instructions: "# Round 1\n\nQuestions appear one after another. Teams have until the timer runs out to answer.",
			Questions: []domain.QuestionRecord{
				sample("1", "", "How many books are in the New Testament?", "b", "25", "27", "29", "31"),
				sample("2", "", "Who led the Israelites out of Egypt?", "a", "Moses", "Joshua", "Aaron", "Caleb"),
				sample("3", "", "Which city was Paul travelling to when he was converted?", "c", "Antioch", "Jerusalem", "Damascus", "Tarsus"),
			},
		},
		{
			ID:           "round2",
			Kind:         domain.KindBoard,
			Title:        "Round 2: The Board",
			Instructions: "# Round 2\n\nTeams take turns picking a number from the board. Each question can be answered once.",
			Questions: []domain.QuestionRecord{
				sample("1", "Old Testament", "Who built the ark?", "b", "Abraham", "Noah", "Elijah", "Jonah"),
				sample("2", "Gospels", "In which town was Jesus born?", "a", "Bethlehem", "Nazareth", "Capernaum", "Jericho"),
				sample("3", "Acts", "Who replaced Judas among the twelve?", "d", "Barnabas", "Silas", "Stephen", "Matthias"),
				sample("4", "Psalms", "Who wrote most of the Psalms?", "c", "Solomon", "Asaph", "David", "Moses"),
			},
		},
	}
}

func sample(id, category, prompt, answer string, texts ...string) domain.QuestionRecord {
	opts := make(domain.Options, 0, len(texts))
	for i, text := range texts {
		opts = append(opts, domain.Option{Label: string(rune('a' + i)), Text: text})
	}
	return domain.QuestionRecord{ID: id, Category: category, Prompt: prompt, Options: opts, CorrectLabel: answer}
}
