package ranking

import (
	"strings"

	"github.com/studyalong/recommender/internal/domain/catalog"
)

// MaxTips bounds the tips attached to a vibe profile.
const MaxTips = 6

var timeTips = map[string][]string{
	"morning": {
		"🌅 Start with easier topics in the morning when your mind is fresh",
		"☕ Take advantage of your natural energy peak for complex concepts",
	},
	"night": {
		"🌙 Perfect time for review and practice problems",
		"🧠 Use the quiet hours for deep, focused learning",
	},
	"afternoon": {
		"☀️ Great time for collaborative learning and discussions",
		"📝 Ideal for hands-on projects and practical exercises",
	},
}

var rhythmTips = map[string][]string{
	"pomodoro": {
		"⏰ Use 25-minute focused sessions with 5-minute breaks",
		"🎯 Set specific learning goals for each Pomodoro session",
		"📊 Track your progress to stay motivated",
	},
	"marathon": {
		"📚 Plan longer study blocks for comprehensive understanding",
		"💧 Remember to stay hydrated during extended sessions",
		"🎯 Focus on one major topic per session",
	},
	"casual": {
		"🌊 Go with the flow - study when you feel motivated",
		"🔄 Mix different types of learning activities",
		"📝 Keep a flexible schedule that adapts to your mood",
	},
}

var soundTips = map[string][]string{
	"lofi": {
		"🎵 Try Brain.fm or Lofi Girl for consistent background music",
		"🎧 Use noise-canceling headphones for better focus",
	},
	"classical": {
		"🎼 Mozart and Bach are excellent for concentration",
		"🎹 Instrumental pieces help maintain focus without distraction",
	},
	"silence": {
		"🤫 Find a quiet space away from distractions",
		"📵 Use Do Not Disturb mode on your devices",
	},
	"nature": {
		"🌊 Ocean waves or rain sounds can improve concentration",
		"🌲 Forest sounds create a calming learning environment",
	},
}

var generalTips = []string{
	"📱 Use the built-in note-taking feature to capture key insights",
	"❓ Mark timestamps when you have doubts for easy review",
	"👥 Join study groups to connect with peers",
	"🏆 Celebrate small wins to maintain motivation",
}

// Tips derives study tips from vibe parameters: time, rhythm and sound tips
// in that order, then the general tips, capped at MaxTips. Unknown values
// contribute nothing.
func Tips(p catalog.VibeParameters) []string {
	var tips []string
	tips = append(tips, timeTips[strings.ToLower(p.Time)]...)
	tips = append(tips, rhythmTips[strings.ToLower(p.Rhythm)]...)
	tips = append(tips, soundTips[strings.ToLower(p.Sound)]...)
	tips = append(tips, generalTips...)
	if len(tips) > MaxTips {
		tips = tips[:MaxTips]
	}
	return tips
}
