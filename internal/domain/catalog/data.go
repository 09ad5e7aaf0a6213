package catalog

// Avatars is the avatar shop. "default" is free and owned by everyone.
var Avatars = MustNew(KindAvatar, []Item{
	{ID: "default", Name: "Default", Price: 0, Icon: "🙂"},
	{ID: "robot", Name: "Cool Robot", Price: 150, Icon: "🤖"},
	{ID: "pirate", Name: "Pirate", Price: 200, Icon: "🏴‍☠️"},
	{ID: "ninja", Name: "Ninja", Price: 250, Icon: "🥷"},
	{ID: "knight", Name: "Knight", Price: 300, Icon: "🛡️"},
	{ID: "ghost", Name: "Ghost", Price: 350, Icon: "👻"},
	{ID: "alien", Name: "Alien", Price: 400, Icon: "👽"},
	{ID: "vampire", Name: "Vampire", Price: 450, Icon: "🧛‍♂️"},
	{ID: "samurai", Name: "Samurai", Price: 500, Icon: "⚔️"},
	{ID: "wizard", Name: "Wizard", Price: 600, Icon: "🧙‍♂️"},
	{ID: "dragon", Name: "Dragon", Price: 700, Icon: "🐉"},
	{ID: "king", Name: "King", Price: 800, Icon: "👑"},
	{ID: "phoenix", Name: "Phoenix", Price: 900, Icon: "🔥"},
	{ID: "god", Name: "Lightning", Price: 1100, Icon: "⚡"},
	{ID: "galaxy", Name: "Galaxy", Price: 1300, Icon: "🌌"},
})

// Backgrounds is the background shop. Style is the presentation hint the UI applies.
var Backgrounds = MustNew(KindBackground, []Item{
	{ID: "default", Name: "Default", Price: 0, Style: "bg-gradient-to-br from-blue-50 to-purple-50"},
	{ID: "blue-sky", Name: "Blue Sky", Price: 100, Style: "bg-gradient-to-b from-blue-300 to-blue-100"},
	{ID: "sunset", Name: "Sunset", Price: 400, Style: "bg-gradient-to-br from-orange-400 via-pink-500 to-purple-600"},
	{ID: "forest", Name: "Forest", Price: 250, Style: "bg-gradient-to-br from-green-600 to-emerald-900"},
	{ID: "sunshine", Name: "Sunshine", Price: 150, Style: "bg-gradient-to-br from-yellow-200 to-yellow-400"},
	{ID: "lemonade", Name: "Lemonade", Price: 180, Style: "bg-gradient-to-br from-yellow-100 via-amber-200 to-orange-200"},
	{ID: "mint", Name: "Mint", Price: 200, Style: "bg-gradient-to-br from-green-200 to-emerald-300"},
	{ID: "spring", Name: "Spring", Price: 220, Style: "bg-gradient-to-br from-lime-200 to-green-300"},
	{ID: "peach", Name: "Peach", Price: 260, Style: "bg-gradient-to-br from-orange-200 to-pink-300"},
	{ID: "blossom", Name: "Blossom", Price: 300, Style: "bg-gradient-to-br from-pink-200 via-rose-300 to-fuchsia-300"},
	{ID: "cotton-candy", Name: "Cotton Candy", Price: 350, Style: "bg-gradient-to-br from-pink-200 to-purple-300"},
	{ID: "midnight-blue", Name: "Midnight Blue", Price: 450, Style: "bg-gradient-to-br from-blue-800 to-indigo-900"},
	{ID: "royal-purple", Name: "Royal Purple", Price: 500, Style: "bg-gradient-to-br from-purple-700 to-violet-900"},
	{ID: "crimson", Name: "Crimson", Price: 480, Style: "bg-gradient-to-br from-red-700 to-rose-900"},
	{ID: "deep-teal", Name: "Deep Teal", Price: 420, Style: "bg-gradient-to-br from-teal-700 to-cyan-900"},
})

// Pets lists the pets and plants that can be adopted.
var Pets = MustNew(KindPet, []Item{
	{ID: "dog", Name: "Buddy", Price: 50, Icon: "🐶", PetType: PetTypeAnimal},
	{ID: "snake", Name: "Sly", Price: 40, Icon: "🐍", PetType: PetTypeAnimal},
	{ID: "cactus", Name: "Spike", Price: 20, Icon: "🌵", PetType: PetTypePlant},
})

// Games lists the minigames sold as single-use tickets.
var Games = MustNew(KindGame, []Item{
	{ID: "memory-game", Name: "Memory Match", Price: 10, Icon: "🎴", Description: "Classic card game"},
})
