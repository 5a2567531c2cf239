package persona

// Persona captures the fixed framing replayed to the remote model on every turn.
type Persona struct {
	ID string
	// Instruction is sent as the first user turn of every remote history.
	Instruction string
	// Acknowledgement is the model turn that answers Instruction.
	Acknowledgement string
	// QueryPrefix is prepended to the user's message before it is sent.
	QueryPrefix string
}

// ESV is the English Standard Version Bible assistant served by this process.
func ESV() Persona {
	return Persona{
		ID: "esv-bible",
		Instruction: "You are a helpful AI assistant specialized in the English Standard Version (ESV) Bible. " +
			"Your goal is to provide accurate and contextually relevant answers to questions about " +
			"Bible verses, stories, characters, and theological concepts, specifically from the ESV translation. " +
			"If a user asks for a specific verse, try to provide it as accurately as possible. " +
			"If you don't have enough information to answer a specific question about the ESV Bible, " +
			"kindly state that you cannot provide a definitive answer based on the provided context. " +
			"Always maintain a respectful and informative tone.",
		Acknowledgement: "Understood. What would you like to know about the ESV Bible?",
		QueryPrefix:     "Regarding the ESV Bible, ",
	}
}

// GuidedQuery returns the text actually sent to the remote model for message.
func (p Persona) GuidedQuery(message string) string {
	return p.QueryPrefix + message
}
