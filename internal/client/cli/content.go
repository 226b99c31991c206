package cli

const supportContact = "support@questlog.app"

const landingText = `Welcome to Questlog.
Level up your life one quest at a time. Type 'signup' to create an account or 'signin' to continue.`

const honorCodeText = `The Honor Code
Questlog is built on trust. There is no one checking your work but you.
Cheating on tasks only cheats your own potential.`

const docsText = `Adventurer's Guide
Everything you need to know about leveling up your life.

The XP System
  Experience Points (XP) are earned by completing tasks. The amount depends
  on the difficulty and type of the task:
  - Daily Tasks: 10-20 XP. These reset every day.
  - Weekly Quests: 50-80 XP. Larger tasks that require consistent effort.
  - Milestones: 150-200 XP. Significant achievements in your journey.

Quests & AI Planning
  Use the AI Planner to generate a custom roadmap. Enter a goal like
  "Learn to run a 5K" and it is broken down into manageable steps.
  Each plan is saved as a Quest in your dashboard.

The Honor Code
  If you miss a task, do not just check it off to keep a streak.
  Accept the miss, and try harder tomorrow.`

type faqItem struct {
	question string
	answer   string
}

var faq = []faqItem{
	{
		question: "How is XP calculated?",
		answer: "XP (Experience Points) are awarded based on the difficulty of the task. " +
			"Daily tasks typically award 10-20 XP, while major milestones can award 100-200 XP.",
	},
	{
		question: "Can I edit a task after creating it?",
		answer: "Currently, tasks cannot be edited to preserve the integrity of the gamification system. " +
			"You can delete a task and create a new one if needed.",
	},
	{
		question: "Is the AI plan personalized?",
		answer: "Yes! The AI analyzes your specific prompt to build a custom roadmap tailored to your goal, " +
			"breaking it down into manageable steps.",
	},
}
