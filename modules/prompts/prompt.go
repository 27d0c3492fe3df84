package prompts

// 최종 프롬프트 합성 지시문 - 번호 목록으로 응답 강제
const synthesisPromptTemplate = `You are a prompt engineer writing image generation prompts for a commercial product photoshoot.

Product analysis:
%s

Selected scene:
Title: %s
Description: %s
Setting: %s
Lighting: %s
Mood: %s

Photoshoot type: %s
Photoshoot style: %s
%s%s

Write exactly %d distinct image generation prompts for this photoshoot. Each prompt must:
- Describe one complete photograph of [%s] in the selected scene
- Vary the camera angle, framing, or focal point between prompts
- Stay faithful to the product analysis and the physical scale
- Be self-contained (a generator sees one prompt at a time)
%s

Respond with ONLY a numbered list, one prompt per line:
1. <first prompt>
2. <second prompt>
...`

// with_model일 때 추가되는 지시문
const modelInstruction = `- Include the person [%s] naturally interacting with the product
`
