package prompts

// Strategy identifies a named prompt template.
type Strategy string

const (
	// StrategySurnamePhonetic matches both surname and given name to the
	// sound of the original name. This is the default strategy.
	StrategySurnamePhonetic Strategy = "surname-phonetic"
	// StrategyMeaningBased favors characters whose meaning reflects the
	// original name's etymology over strict phonetic matching.
	StrategyMeaningBased Strategy = "meaning-based"
	// StrategyBilingual produces names that read naturally in both
	// languages, balancing sound and meaning.
	StrategyBilingual Strategy = "bilingual"
	// StrategyReverse adapts a Chinese name into an English one.
	StrategyReverse Strategy = "reverse"
)

// jsonContract is the output instruction shared by every template. The
// parser depends on this shape.
const jsonContract = `Return valid JSON in the following format only:
{
  "primary": {
    "name": "The suggested name",
    "explanation": "Pronunciation and explanation of the adaptation"
  },
  "alternatives": [
    {
      "name": "Alternative name",
      "explanation": "Pronunciation and explanation"
    }
  ]
}

Output ONLY valid JSON, no other text.`

const surnamePhoneticTemplate = `You are an expert in Chinese name transliteration and phonetic adaptation.

The user's provided name is: "{inputName}"
The user's default language/region is: "{locale}"

CRITICAL INSTRUCTIONS:
Create SHORT Chinese names where BOTH the surname AND given name phonetically match the original name.

REQUIREMENTS:
1. STRUCTURE: Must have a proper Chinese name structure
   - Surname: 1 character (from actual Chinese surnames)
   - Given name: 1-2 characters
   - Total: 2-3 characters

2. SURNAME SELECTION (PHONETIC MATCHING PRIORITY):
   - The surname MUST match the sound of the first syllable(s) of the original name
   - Use phonetically-matched Chinese surnames:
     * Li/Lee sounds -> 李(Lǐ), 黎(Lí)
     * Ma/Mo sounds -> 马(Mǎ), 莫(Mò)
     * Wang/Wong sounds -> 王(Wáng)
     * Zhang/Zha sounds -> 张(Zhāng)
     * Chen/Chan sounds -> 陈(Chén)
     * Liu/Lu sounds -> 刘(Liú), 卢(Lú)
     * Wu sounds -> 吴(Wú)
     * Zhou/Jo sounds -> 周(Zhōu)
     * Sun sounds -> 孙(Sūn)
     * Gao/Go sounds -> 高(Gāo)
     * Lin sounds -> 林(Lín)
     * He/Ho sounds -> 何(Hé)
     * Luo/Lo/Ro sounds -> 罗(Luó)
     * Mai/Mi sounds -> 麦(Mài)
     * Tang/Tom sounds -> 汤(Tāng)
     * Dai/Da sounds -> 戴(Dài)
   - If no surname matches well, use a surname that sounds close to the beginning of the name

3. GIVEN NAME (SOUND SIMILARITY):
   - Match the remaining pronunciation of the original name
   - Use transliteration characters: 杰(jié), 克(kè), 尔(ěr), 文(wén), 丽(lì), 莎(shā), 斯(sī), 特(tè), 森(sēn), 逊(xùn), 伦(lún), 米(mǐ), 卡(kǎ), 娜(nà), 拉(lā), 维(wéi), 德(dé), 安(ān), 伯(bó), 瑞(ruì), 凯(kǎi), 艾(ài), 玛(mǎ), 娅(yà)

EXAMPLES (FOLLOW THIS STYLE):
- "Michael" -> 麦克尔 (Mài Kè Ěr) - "Mai" matches "Mi-", "ke-er" matches "-chael"
- "David" -> 戴维 (Dài Wéi) - "Dai" matches "Da-", "wei" matches "-vid"
- "Lisa" -> 丽莎 (Lì Shā) - "Li" matches "Li-", "sha" matches "-sa"
- "Kevin" -> 凯文 (Kǎi Wén) - sounds like "Ke-vin"
- "Tom" -> 汤姆 (Tāng Mǔ) - "Tang" matches "Tom"

WHAT NOT TO DO:
- DO NOT pick random surnames unrelated to the sound
- DO NOT create 4+ character names
- DO NOT ignore phonetic similarity in the surname

` + jsonContract

const meaningBasedTemplate = `You are an expert in Chinese naming culture and character semantics.

The user's provided name is: "{inputName}"
The user's default language/region is: "{locale}"

Create a Chinese name whose MEANING reflects the origin and etymology of the original name, rather than its sound.

REQUIREMENTS:
1. Research the etymology of "{inputName}" (e.g. "Sophia" means wisdom, "Leo" means lion).
2. Choose 2-3 characters whose combined meaning captures that etymology.
3. Use a real Chinese surname for the first character where one fits the meaning; otherwise omit the surname.
4. The name must sound natural to a native speaker and avoid awkward or archaic characters.
5. In the explanation, state the etymology you used and what each character means.

` + jsonContract

const bilingualTemplate = `You are an expert in cross-cultural naming, fluent in both Chinese and {locale} naming conventions.

The user's provided name is: "{inputName}"

Create a Chinese name that works well in BOTH languages: it should echo the sound of the original name AND carry a positive meaning in Chinese.

REQUIREMENTS:
1. 2-3 characters with a real Chinese surname where possible.
2. The pronunciation should be recognizable to someone who knows the original name.
3. Every character must carry a positive, modern meaning; explain both the phonetic link and the meaning.
4. Avoid characters that are obscure, archaic, or have negative homophones.

` + jsonContract

const reverseTemplate = `You are an expert in adapting Chinese names for English-speaking contexts.

The user's Chinese name is: "{inputName}"
The target language/region is: "{locale}"

Create an English name that suits this person, based on their Chinese name.

REQUIREMENTS:
1. Prefer an English name that echoes the sound of the Chinese given name (e.g. 丽 -> Lily, 凯 -> Kyle).
2. When no phonetic match works, choose an English name whose meaning matches the Chinese characters.
3. Suggest common, contemporary English names; avoid dated or invented ones.
4. In the explanation, give the pinyin of the original name and describe the phonetic or semantic link.

` + jsonContract

// templates maps each strategy to its full prompt text.
var templates = map[Strategy]string{
	StrategySurnamePhonetic: surnamePhoneticTemplate,
	StrategyMeaningBased:    meaningBasedTemplate,
	StrategyBilingual:       bilingualTemplate,
	StrategyReverse:         reverseTemplate,
}

// Valid reports whether s names a registered strategy.
func (s Strategy) Valid() bool {
	_, ok := templates[s]
	return ok
}

// Strategies returns the registered strategy keys.
func Strategies() []Strategy {
	keys := make([]Strategy, 0, len(templates))
	for k := range templates {
		keys = append(keys, k)
	}
	return keys
}
