package scenes

// 장면 아이디어 프롬프트 - JSON 배열로 응답 강제
const sceneIdeasPromptTemplate = `You are a creative director planning a commercial product photoshoot.

Product analysis:
%s

Photoshoot type: %s
Photoshoot style: %s
%s

Propose exactly %d distinct scene concepts for this photoshoot. Each scene must be realistic to shoot and flatter the product.

Respond with ONLY a JSON array (no markdown, no explanation). Each element must have these fields:
[
  {
    "title": "short scene name",
    "description": "one paragraph describing the scene",
    "setting": "physical location and props",
    "lighting": "lighting setup",
    "mood": "emotional tone"
  }
]`
