package question

// Category groups practice questions and carries suggested topics for
// the setup screen.
type Category struct {
	Name   string
	Topics []string
}

// Catalog is the fixed set of aptitude categories offered at setup.
// Every category also accepts the "General" topic.
var Catalog = []Category{
	{
		Name:   "Quantitative",
		Topics: []string{"General", "Percentages", "Ratios", "Time and Work", "Profit and Loss"},
	},
	{
		Name:   "Verbal",
		Topics: []string{"General", "Synonyms", "Sentence Correction", "Reading Comprehension"},
	},
	{
		Name:   "Reasoning",
		Topics: []string{"General", "Analogies", "Syllogisms", "Coding-Decoding"},
	},
	{
		Name:   "Data Interpretation",
		Topics: []string{"General", "Tables", "Averages", "Trends"},
	},
	{
		Name:   "Logical",
		Topics: []string{"General", "Number Series", "Seating Arrangement", "Blood Relations"},
	},
	{
		Name:   "Puzzle Solving",
		Topics: []string{"General", "Riddles", "Lateral Thinking", "Math Puzzles"},
	},
}
