package main

import "triviabattle/internal/model"

var sampleQuestions = []*model.Question{
	// Cartoons
	{
		Category:      "cartoons",
		Prompt:        "Which cartoon character had a catchphrase \"Cowabunga!\"?",
		Options:       []string{"Teenage Mutant Ninja Turtles", "SpongeBob SquarePants", "Tom and Jerry", "The Simpsons"},
		CorrectAnswer: 0,
		Difficulty:    model.DifficultyEasy,
	},
	{
		Category:      "cartoons",
		Prompt:        "What was the name of the main character in \"Dragon Ball Z\"?",
		Options:       []string{"Vegeta", "Goku", "Piccolo", "Gohan"},
		CorrectAnswer: 1,
		Difficulty:    model.DifficultyMedium,
	},
	{
		Category:      "cartoons",
		Prompt:        "Which cartoon featured characters named \"Johnny Bravo\" and \"Dexter\"?",
		Options:       []string{"Cartoon Network", "Nickelodeon", "Disney Channel", "Fox Kids"},
		CorrectAnswer: 0,
		Difficulty:    model.DifficultyMedium,
	},
	{
		Category:      "cartoons",
		Prompt:        "What was the name of the pink cat in \"Tom and Jerry\"?",
		Options:       []string{"Butch", "Spike", "Toodles", "Tuffy"},
		CorrectAnswer: 3,
		Difficulty:    model.DifficultyHard,
	},
	{
		Category:      "cartoons",
		Prompt:        "Which show featured a character named \"Ash Ketchum\"?",
		Options:       []string{"Digimon", "Pokemon", "Yu-Gi-Oh!", "Beyblade"},
		CorrectAnswer: 1,
		Difficulty:    model.DifficultyEasy,
	},
	// Bollywood
	{
		Category:      "bollywood",
		Prompt:        "Which actor starred in \"Dilwale Dulhania Le Jayenge\" (1995)?",
		Options:       []string{"Aamir Khan", "Shah Rukh Khan", "Salman Khan", "Akshay Kumar"},
		CorrectAnswer: 1,
		Difficulty:    model.DifficultyEasy,
	},
	{
		Category:      "bollywood",
		Prompt:        "What was the famous dialogue \"Mogambo khush hua\" from?",
		Options:       []string{"Mr. India", "Sholay", "Don", "Deewar"},
		CorrectAnswer: 0,
		Difficulty:    model.DifficultyMedium,
	},
	{
		Category:      "bollywood",
		Prompt:        "Which movie featured the song \"Chaiyya Chaiyya\"?",
		Options:       []string{"Dil Se", "Kuch Kuch Hota Hai", "Kabhi Khushi Kabhie Gham", "Dilwale Dulhania Le Jayenge"},
		CorrectAnswer: 0,
		Difficulty:    model.DifficultyMedium,
	},
	// Hollywood
	{
		Category:      "hollywood",
		Prompt:        "Which movie featured the quote \"I'll be back\"?",
		Options:       []string{"Predator", "The Terminator", "Total Recall", "Commando"},
		CorrectAnswer: 1,
		Difficulty:    model.DifficultyEasy,
	},
	{
		Category:      "hollywood",
		Prompt:        "What was the name of the main character in \"The Matrix\" (1999)?",
		Options:       []string{"Morpheus", "Neo", "Trinity", "Agent Smith"},
		CorrectAnswer: 1,
		Difficulty:    model.DifficultyEasy,
	},
	{
		Category:      "hollywood",
		Prompt:        "Which movie featured the song \"My Heart Will Go On\"?",
		Options:       []string{"Titanic", "Avatar", "The Notebook", "Pearl Harbor"},
		CorrectAnswer: 0,
		Difficulty:    model.DifficultyEasy,
	},
	// Gadgets
	{
		Category:      "gadgets",
		Prompt:        "What was the storage capacity of a standard floppy disk?",
		Options:       []string{"1.44 MB", "2.88 MB", "720 KB", "360 KB"},
		CorrectAnswer: 0,
		Difficulty:    model.DifficultyMedium,
	},
	{
		Category:      "gadgets",
		Prompt:        "Which company made the Walkman?",
		Options:       []string{"Panasonic", "Sony", "Philips", "Samsung"},
		CorrectAnswer: 1,
		Difficulty:    model.DifficultyEasy,
	},
	{
		Category:      "gadgets",
		Prompt:        "What was the first portable music player called?",
		Options:       []string{"iPod", "Walkman", "Discman", "MP3 Player"},
		CorrectAnswer: 1,
		Difficulty:    model.DifficultyMedium,
	},
	{
		Category:      "gadgets",
		Prompt:        "Which gaming console was released in 1994?",
		Options:       []string{"Nintendo 64", "PlayStation", "Sega Saturn", "Game Boy Color"},
		CorrectAnswer: 1,
		Difficulty:    model.DifficultyMedium,
	},
	// Snacks
	{
		Category:      "snacks",
		Prompt:        "What was Pepsi Blue?",
		Options:       []string{"A blue-colored Pepsi", "A limited edition flavor", "A marketing campaign", "A different brand"},
		CorrectAnswer: 0,
		Difficulty:    model.DifficultyHard,
	},
	{
		Category:      "snacks",
		Prompt:        "Which snack was famous for its \"Phantom\" cigarettes?",
		Options:       []string{"Candy cigarettes", "Chocolate cigarettes", "Gum cigarettes", "All of the above"},
		CorrectAnswer: 3,
		Difficulty:    model.DifficultyMedium,
	},
	{
		Category:      "snacks",
		Prompt:        "What was the popular bubble gum brand in the 90s?",
		Options:       []string{"Hubba Bubba", "Bubble Yum", "Bazooka", "All of the above"},
		CorrectAnswer: 3,
		Difficulty:    model.DifficultyEasy,
	},
	// Toys
	{
		Category:      "toys",
		Prompt:        "What were Tazos?",
		Options:       []string{"Collectible discs", "Action figures", "Stickers", "Cards"},
		CorrectAnswer: 0,
		Difficulty:    model.DifficultyMedium,
	},
	{
		Category:      "toys",
		Prompt:        "Which spinning top toy was popular in the 2000s?",
		Options:       []string{"Beyblade", "Top Trumps", "Yo-yo", "Fidget Spinner"},
		CorrectAnswer: 0,
		Difficulty:    model.DifficultyEasy,
	},
	{
		Category:      "toys",
		Prompt:        "What was the name of the collectible card game from the 90s?",
		Options:       []string{"Pokemon Cards", "Yu-Gi-Oh! Cards", "Magic: The Gathering", "All of the above"},
		CorrectAnswer: 3,
		Difficulty:    model.DifficultyEasy,
	},
}
