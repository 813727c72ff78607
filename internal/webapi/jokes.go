package webapi

import (
	"context"
	"math/rand"
)

var jokeTable = map[string][]string{
	"en": {
		"Why don't scientists trust atoms? Because they make up everything!",
		"Why did the scarecrow win an award? Because he was outstanding in his field!",
		"Why don't eggs tell jokes? They'd crack each other up!",
		"What do you call a fake noodle? An impasta!",
		"How does a penguin build its house? Igloos it together!",
	},
	"es": {
		"¿Por qué los pájaros no usan Facebook? Porque ya tienen Twitter!",
		"¿Qué le dice un pez a otro? Nada!",
		"¿Qué hace una abeja en el gimnasio? ¡Zum-ba!",
		"¿Cómo se llama un boomerang que no vuelve? Palo!",
		"¿Por qué las focas miran hacia arriba? ¡Porque ahí están los focos!",
	},
	"fr": {
		"Que fait une fraise sur un cheval? Elle monte à la crème!",
		"Pourquoi les poissons n'aiment pas les ordinateurs? Ils ont peur du net!",
		"Qu'est-ce qui est jaune et qui attend? Jonathan!",
		"Qu'est-ce qu'un crocodile qui surveille la pharmacie? Un pharmaguard!",
	},
}

// Jokes serves a canned joke per language, translating an English one for
// languages the table doesn't cover.
type Jokes struct {
	translator *Translator
	pick       func(n int) int
}

func NewJokes(translator *Translator) *Jokes {
	return &Jokes{translator: translator, pick: rand.Intn}
}

// Tell returns a joke in lang (a base language code).
func (j *Jokes) Tell(ctx context.Context, lang string) string {
	if list, ok := jokeTable[lang]; ok {
		return list[j.pick(len(list))]
	}
	joke := jokeTable["en"][j.pick(len(jokeTable["en"]))]
	if j.translator == nil {
		return joke
	}
	translated, err := j.translator.Translate(ctx, joke, "en", lang)
	if err != nil {
		return joke
	}
	return translated
}
