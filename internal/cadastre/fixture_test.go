package cadastre

import (
	"github.com/jmdejong/cadastrs/internal/background"
	"github.com/jmdejong/cadastrs/internal/parcel"
	"github.com/jmdejong/cadastrs/internal/pos"
)

// littleTown is a fully claimed 2x2 town used by the render and JSON tests.
func littleTown() *Cadastre {
	return New(background.Background(8138474425133413201),
		parcel.Parcel{
			Owner:    parcel.User("vilmibm"),
			Location: pos.New(0, 0),
			Art: parcel.Grid{
				"+------.................",
				"|      |               .",
				" . |      |           . ",
				"..|          |         .",
				"|              |       .",
				"|                 |   . ",
				"|     feels         |.  ",
				"|       must          | ",
				"|         flow         |",
				"|         _            |",
				"|      ---  -_         |",
				"+------ .......--------π",
			},
			Mask: parcel.Grid{
				"+------.................",
				"|      |               .",
				" . |      |           . ",
				"..|          |         .",
				"|              |       .",
				"|                 |   . ",
				"|     11111         |.  ",
				"|       1111          | ",
				"|         1111         |",
				"|         _            |",
				"|      ---  -_         |",
				"+------ .......--------2",
			},
			Links: parcel.Links{
				'1': "https://tilde.town/~vilmibm",
				'2': "https://libraryofbabel.info/random.cgi",
			},
		},
		parcel.Parcel{
			Owner:    parcel.User("troido"),
			Location: pos.New(0, 1),
			Art: parcel.Grid{
				"+==()=================+.",
				"| (%&8)  /\\       _,__|.",
				"|(&(%)%)/  \\    . __,_|.",
				"| (%8%)/_##_\\   .     |.",
				"|  ||/ |    |   . @   |.",
				"|  ||  | /\\ | * . @   |.",
				"|  ||  |_||_|   .     |.",
				"|        ..  *  . \"'` |.",
				"| (%) O  ........     |.",
				"|        ..    ~troido|.",
				"+=======#  #==========+.",
				"........................",
			},
			Mask: parcel.Grid{
				"111()111111111111111111.",
				"1 (%&8)  33       _,__1.",
				"1(&(%)%)3333    . __,_1.",
				"1 (%8%)333333   .     1.",
				"1  ||/ 333333   . @   1.",
				"1  ||  333333 * . @   1.",
				"1  ||  333333   .     1.",
				"1        ..  *  . \"'` 1.",
				"1 (%) O  ........     1.",
				"1        ..    22222221.",
				"11111111111111111111111.",
				"........................",
			},
			Links: parcel.Links{
				'1': "https://tilde.town/~troido/cadastre/",
				'2': "https://tilde.town/~troido/index.html",
				'3': "https://tilde.town/~troido/entrance.html",
			},
		},
		parcel.Parcel{
			Owner:    parcel.Admin(),
			Location: pos.New(1, 1),
			Art: parcel.Grid{
				"╔══════════════════════╗",
				"║ Tilde.town Cadastre  ║",
				"║                      ║",
				"║ Any tilde.town user  ║",
				"║ can claim a parcel   ║",
				"║ of land to show some ║",
				"║ awesome ascii art    ║",
				"║                      ║",
				"║ * Instructions       ║",
				"║ * source (github)    ║",
				"║      Made by ~troido ║",
				"╚══════════════════════╝",
			},
			Mask: parcel.Grid{
				"~~~~~~~~~~~~~~~~~~~~~~~~",
				"~ Tilde.town Cadastre  ~",
				"~                      ~",
				"~ Any tilde.town user  ~",
				"~ can claim a parcel   ~",
				"~ of land to show some ~",
				"~ awesome ascii art    ~",
				"~                      ~",
				"~ * 111111111111       ~",
				"~ * 222222222222222    ~",
				"~      Made by 3333333 ~",
				"~~~~~~~~~~~~~~~~~~~~~~~~",
			},
			Links: parcel.Links{
				'1': "https://tilde.town/~troido/cadastre",
				'2': "https://github.com/jmdejong/cadastre",
				'3': "https://tilde.town/~troido/index.html",
			},
		},
		parcel.Parcel{
			Owner:    parcel.Public(),
			Location: pos.New(1, 0),
			Art: parcel.Grid{
				"                       .",
				"                       .",
				"__                     .",
				" ~\\________            .",
				"_   ~  ~   \\_ {%%}     .",
				" \\_______~<><{%%%%}    .",
				"         \\   ~{%%}     .",
				"          \\><>!||      .",
				"          |~  !||      .",
				"           \\  ~ `\\     .",
				"            \\__   \\    .",
				"               \\~  |   .",
			},
			Mask: parcel.Grid{
				"                        ",
				"                        ",
				"                        ",
				"                        ",
				"                        ",
				"                        ",
				"                        ",
				"                        ",
				"                        ",
				"                        ",
				"                        ",
				"                        ",
			},
			Links: parcel.Links{},
		},
	)
}
