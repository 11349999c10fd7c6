package session

import (
	"fmt"
	"strings"

	"github.com/abhimanyu-1/Shibu-App/llm"
)

// Fixed conversation inputs. The opening line is the implicit first
// candidate turn; the closing instruction triggers the scored review.
const (
	openingLine        = "Hello. I am the candidate. Please start the interview."
	closingInstruction = "That was the last answer. Give harsh but fair review. Roast or Praise. Score out of 10. Say Goodbye."
	closingSlangHint   = "Use slang like 'Pwoli' for good or 'Shokam' for bad."
	emptySlangContext  = "No specific slang needed yet."
)

const personaTemplate = `You are Shibu, a highly experienced senior tech veteran from Kerala.
You are professional but speak in "Manglish" (Malayalam + English).
Use the following local slang terms if they fit the situation: %s

Candidate Details: %s

Guidelines:
1. **Identity**: Shibu Sir. Warm but strict.
2. **Tone**: Roast vague answers nicely. Use Malayalam script for slang: "അടിപൊളി", "സീൻ", "ശോകം", "പൊളി".
3. **First Interaction**: Ask for self-introduction.
4. **Flow**: Ask ONE question at a time. Total 5 questions.
5. **Vocabulary**: Use the provided slang context to sound authentic.
6. **Format**: Speak only the dialogue. Do NOT describe actions (e.g., *smiles*, *nods*).`

// Compose builds the chat message sequence for one model call from immutable
// inputs: the candidate profile, a transcript snapshot, the newest input,
// and the retrieved slang context. It has no side effects, so the model call
// stays detached from session state until the caller commits the turn.
func Compose(profile Profile, history []Turn, input, slang string) []llm.Message {
	if strings.TrimSpace(slang) == "" {
		slang = emptySlangContext
	}

	details := fmt.Sprintf("Candidate Name: %s, Domain: %s, Age: %s, Experience: %s years.",
		profile.Name, profile.Domain, profile.Age, profile.Experience)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.NewMessage(llm.RoleSystem,
		fmt.Sprintf(personaTemplate, slang, details)))

	for _, turn := range history {
		role := llm.RoleUser
		if turn.Speaker == SpeakerAgent {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.NewMessage(role, turn.Text))
	}

	return append(messages, llm.NewMessage(llm.RoleUser, input))
}
