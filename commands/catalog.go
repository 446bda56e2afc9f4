package commands

// Info describes one command for dispatch and for the help listing.
type Info struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string
}

var Catalog = []Info{
	{Name: "daily", Aliases: []string{"show"}, Usage: "daily", Description: "Show today's problems"},
	{Name: "done", Usage: "done <n>", Description: "Mark problem n of today's set as completed"},
	{Name: "submit", Usage: "submit <title>", Description: "Mark a problem of today's set as completed by title"},
	{Name: "leaderboard", Aliases: []string{"lb"}, Usage: "leaderboard", Description: "Show everyone's score"},
	{Name: "set_config", Usage: "set_config <count> <difficulties> [topic, topic...]", Description: "Configure this server and pick a new set now. Difficulties and topics are comma separated, e.g. set_config 3 easy,medium dynamic programming, graph"},
	{Name: "delete_today", Usage: "delete_today", Description: "Clear the current set"},
	{Name: "topics", Usage: "topics", Description: "List the topics you can filter on"},
	{Name: "help", Aliases: []string{"commands", "info"}, Usage: "help", Description: "Show this guide"},
}

// lookupCommand resolves a verb or alias to its canonical name.
func lookupCommand(verb string) (Info, bool) {
	for _, info := range Catalog {
		if info.Name == verb {
			return info, true
		}
		for _, alias := range info.Aliases {
			if alias == verb {
				return info, true
			}
		}
	}
	return Info{}, false
}
