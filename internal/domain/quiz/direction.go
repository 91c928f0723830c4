package quiz

// Direction says which language is shown as the prompt and which is
// expected as the answer.
type Direction string

const (
	// DirectionCNToEN shows the Chinese meaning, answers are English words.
	DirectionCNToEN Direction = "cn_to_en"
	// DirectionENToCN shows the English word, answers are Chinese meanings.
	DirectionENToCN Direction = "en_to_cn"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionCNToEN || d == DirectionENToCN
}

// DisplayName returns the human-readable name used in client payloads.
func (d Direction) DisplayName() string {
	switch d {
	case DirectionCNToEN:
		return "中译英"
	case DirectionENToCN:
		return "英译中"
	}
	return string(d)
}
