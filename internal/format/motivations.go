package format

import (
	"math/rand"

	"party-finder-bot/internal/model"
)

// Motivational lines shown when a party is assembled, keyed by game mode.
// Modes without a pool of their own fall back to the general pool.
var modeMotivations = map[model.GameMode][][2]string{
	model.ModeBattleRoyale: {
		{"Останется только одна команда. Пусть это будете вы!", "Only one squad survives. Make it yours!"},
		{"Зона сжимается, а вы уже в сборе. Вперёд!", "The zone is closing and your squad is ready. Go!"},
		{"Высадка, лут, победа. Всё по плану.", "Drop, loot, win. Stick to the plan."},
	},
	model.ModeTeamVsTeam: {
		{"Стенка на стенку. Покажите, чья стенка крепче!", "Wall against wall. Show them whose wall stands!"},
		{"Пять бойцов, одна цель. Разнесите их!", "Five fighters, one goal. Tear them apart!"},
	},
	model.ModeSabotage: {
		{"Тихо зашли, громко вышли. Удачи на задании!", "In quiet, out loud. Good luck on the mission!"},
		{"Саботаж начинается. Они ничего не заметят.", "The sabotage begins. They won't see it coming."},
	},
	model.ModeTeamDeathmatch: {
		{"Каждый фраг приближает победу. Огонь!", "Every frag counts. Open fire!"},
		{"Командный бой выигрывает команда, а не одиночки.", "Deathmatch is won by the team, not by lone wolves."},
	},
}

var generalMotivations = [][2]string{
	{"Пати в сборе. Время показать класс!", "The party is ready. Time to show your class!"},
	{"Вместе вы сильнее. Удачи в бою!", "Together you are stronger. Good luck out there!"},
	{"Собрались — значит, победите!", "Assembled means victorious!"},
	{"Враги уже боятся. И правильно делают.", "The enemies are already afraid. They should be."},
}

// RandomMotivation picks a random motivational line for the assembled
// party.
func RandomMotivation(mode model.GameMode, lang model.Language) string {
	pool, ok := modeMotivations[mode]
	if !ok {
		pool = generalMotivations
	}
	line := pool[rand.Intn(len(pool))]
	if lang.IsRU() {
		return line[0]
	}
	return line[1]
}
