package voter

import "vote_automation/domain/entities"

// Plan - builds one task per name. Proxies are assigned round-robin, so
// name i goes through proxies[i % len(proxies)]; without proxies every task
// connects directly.
func Plan(url string, names []string, proxies []entities.Proxy) []entities.VoteTask {
	tasks := make([]entities.VoteTask, 0, len(names))
	for i, name := range names {
		task := entities.VoteTask{URL: url, Name: name}
		if len(proxies) > 0 {
			p := proxies[i%len(proxies)]
			task.Proxy = &p
		}
		tasks = append(tasks, task)
	}
	return tasks
}
