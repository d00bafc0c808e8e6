package assistant

import "fmt"

// Offline answers. Each call returns fresh slices so callers may modify them.

const offlineReply = "Hi! I can't access the AI service right now, but I can tell you to check your uploaded certificates to extract skills or view your profile."

func offlineSkillExtraction() SkillExtraction {
	return SkillExtraction{
		Skills:  []string{"Communication", "Problem Solving"},
		Summary: "Baseline skills inferred from certificates.",
		Jobs:    []string{"Intern", "Junior Engineer", "Analyst", "QA", "Support Engineer"},
	}
}

// offlineResume builds a resume from the stored data alone. skills is nil
// when the user has no stored profile.
func offlineResume(skills []string, user UserIdentity) ResumeContent {
	if skills == nil {
		skills = []string{"Communication"}
	}
	return ResumeContent{
		Objective:  "Aspiring engineer seeking opportunities to apply academic knowledge.",
		Skills:     append([]string{}, skills...),
		Education:  fmt.Sprintf("%s - %s", user.Course, user.Branch),
		Projects:   []Project{{Name: "Sample Project", Description: "A project showcasing core skills."}},
		Experience: []Experience{},
	}
}

func offlineJobSuggestions() []string {
	return []string{"Intern", "Junior Developer", "QA Analyst", "Support Engineer", "Data Analyst"}
}

func offlineJobRoles() []JobRole {
	return []JobRole{
		{Title: "Intern", Description: "Entry-level internship to build practical skills.", Link: "https://www.indeed.com"},
		{Title: "Junior Developer", Description: "Assist in software development tasks under mentorship.", Link: "https://www.linkedin.com/jobs"},
	}
}
