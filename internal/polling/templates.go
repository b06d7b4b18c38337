package polling

type Template struct {
	Question string
	Options  []string
}

// DefaultTemplates is the fixed question rotation. Schools pick from it
// round-robin by their position in the school list, so generation for a
// given date is deterministic.
var DefaultTemplates = []Template{
	{
		Question: "Who has the most contagious laugh on campus?",
		Options:  []string{"The one who snorts when they laugh", "The silent giggler", "The belly laugher", "The one who laughs at everything"},
	},
	{
		Question: "Which classmate would you want on your team for any challenge?",
		Options:  []string{"The problem solver", "The cheerleader", "The creative one", "The organized planner"},
	},
	{
		Question: "Who has the best style that makes you smile?",
		Options:  []string{"The color coordinator", "The vintage lover", "The minimalist", "The trendsetter"},
	},
	{
		Question: "Who brightens your day with their smile?",
		Options:  []string{"The morning person", "The lunch buddy", "The hallway greeter", "The class clown"},
	},
	{
		Question: "Which classmate would you trust with your biggest secret?",
		Options:  []string{"The loyal friend", "The good listener", "The trustworthy one", "The supportive person"},
	},
	{
		Question: "Who has the most positive energy in the room?",
		Options:  []string{"The motivator", "The encourager", "The optimist", "The cheerleader"},
	},
}
