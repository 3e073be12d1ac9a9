package opengl

// maxJoints must match assets.MaxJoints and the joints[] array below.
const maxJoints = 100

// Mesh pass vertex shader: optional linear-blend skinning, world-space
// position and normal, light-space position for the shadow lookup.
const meshVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in uvec4 inJoints;
layout(location = 4) in vec4 inWeights;

uniform mat4 mvp;
uniform mat4 model;
uniform mat4 lightViewProj;
uniform bool skinned;
uniform mat4 joints[100];

out vec3 fragNormal;
out vec2 fragUV;
out vec3 fragWorldPos;
out vec4 fragLightSpacePos;

void main() {
    mat4 skin = mat4(1.0);
    if (skinned) {
        skin = inWeights.x * joints[inJoints.x] +
               inWeights.y * joints[inJoints.y] +
               inWeights.z * joints[inJoints.z] +
               inWeights.w * joints[inJoints.w];
    }
    vec4 local = skin * vec4(inPosition, 1.0);
    vec4 worldPos = model * local;

    gl_Position       = mvp * local;
    fragNormal        = mat3(model) * mat3(skin) * inNormal;
    fragUV            = inUV;
    fragWorldPos      = worldPos.xyz;
    fragLightSpacePos = lightViewProj * worldPos;
}
` + "\x00"

// Mesh pass fragment shader: single directional light, Phong specular,
// PCF shadows via sampler2DShadow.
const meshFragSrc = `
#version 410 core
in vec3 fragNormal;
in vec2 fragUV;
in vec3 fragWorldPos;
in vec4 fragLightSpacePos;

out vec4 outColor;

uniform vec3 eye;

uniform bool  hasLight;
uniform vec3  lightDir;
uniform vec3  lightColor;
uniform float ambientIntensity;
uniform float diffuseIntensity;

uniform vec4  matColor;
uniform bool  receiveLight;
uniform float specularIntensity;
uniform float specularPower;

// unit 0
uniform sampler2D albedoTex;
uniform bool      hasTexture;

// unit 1
uniform sampler2DShadow shadowMap;
uniform bool            hasShadows;

float calcShadow() {
    vec3 p = fragLightSpacePos.xyz / fragLightSpacePos.w;
    p = p * 0.5 + 0.5;
    if (p.z > 1.0) return 1.0;
    float shadow = 0.0;
    vec2 ts = 1.0 / vec2(textureSize(shadowMap, 0));
    for (int x = -1; x <= 1; x++) {
        for (int y = -1; y <= 1; y++) {
            shadow += texture(shadowMap, vec3(p.xy + vec2(float(x), float(y)) * ts, p.z - 0.002));
        }
    }
    return shadow / 9.0;
}

void main() {
    vec4 base = matColor;
    if (hasTexture) {
        base *= texture(albedoTex, fragUV);
    }
    if (!hasLight || !receiveLight) {
        outColor = base;
        return;
    }

    vec3 N = normalize(fragNormal);
    vec3 L = normalize(-lightDir);
    vec3 V = normalize(eye - fragWorldPos);
    float NdL = max(dot(N, L), 0.0);
    float spec = 0.0;
    if (NdL > 0.0) {
        spec = specularIntensity * pow(max(dot(V, reflect(-L, N)), 0.0), specularPower);
    }
    float shadow = hasShadows ? calcShadow() : 1.0;

    vec3 color = base.rgb * lightColor * (ambientIntensity + shadow * diffuseIntensity * NdL)
               + lightColor * spec * shadow;
    outColor = vec4(color, base.a);
}
` + "\x00"

// Depth-only shader for the shadow pass; skins like the mesh pass so
// animated meshes cast animated shadows.
const depthVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 3) in uvec4 inJoints;
layout(location = 4) in vec4 inWeights;

uniform mat4 lightMVP;
uniform bool skinned;
uniform mat4 joints[100];

void main() {
    mat4 skin = mat4(1.0);
    if (skinned) {
        skin = inWeights.x * joints[inJoints.x] +
               inWeights.y * joints[inJoints.y] +
               inWeights.z * joints[inJoints.z] +
               inWeights.w * joints[inJoints.w];
    }
    gl_Position = lightMVP * skin * vec4(inPosition, 1.0);
}
` + "\x00"

const depthFragSrc = `
#version 410 core
void main() {}
` + "\x00"

// Overlay shader for quads and text. Vertices come from gl_VertexID: nine
// cells of two triangles each, the cell edges placed by the border sizes.
// Model space has its origin at the bottom-left corner; texel rows run top
// to bottom.
const overlayVertSrc = `
#version 410 core
uniform mat4 mvp;
uniform vec2 size;
uniform vec2 texSize;
uniform vec4 border; // left, right, top, bottom
uniform bool normalized;

out vec2 fragUV;

const vec2 corners[6] = vec2[](
    vec2(0, 0), vec2(1, 0), vec2(0, 1),
    vec2(0, 1), vec2(1, 0), vec2(1, 1)
);

void main() {
    int cell = gl_VertexID / 6;
    vec2 c = corners[gl_VertexID % 6];
    int i = cell % 3;
    int j = cell / 3;

    float xs[4] = float[](0.0, border.x, size.x - border.y, size.x);
    float ys[4] = float[](0.0, border.w, size.y - border.z, size.y);
    float us[4] = float[](0.0, border.x, texSize.x - border.y, texSize.x);
    float vs[4] = float[](texSize.y, texSize.y - border.w, border.z, 0.0);

    vec2 pos = vec2(mix(xs[i], xs[i + 1], c.x), mix(ys[j], ys[j + 1], c.y));
    fragUV = vec2(mix(us[i], us[i + 1], c.x), mix(vs[j], vs[j + 1], c.y));
    if (normalized) {
        fragUV /= texSize;
    }
    gl_Position = mvp * vec4(pos, 0.0, 1.0);
}
` + "\x00"

const overlayFragSrc = `
#version 410 core
in vec2 fragUV;
out vec4 outColor;

uniform vec4  color;
uniform float opacity;

// 0 = solid colour, 1 = sampler2D, 2 = sampler2DRect, 3 = coverage mask
uniform int mode;
uniform sampler2D     tex2D;   // unit 0
uniform sampler2DRect texRect; // unit 1

void main() {
    vec4 c = color;
    if (mode == 1) {
        c *= texture(tex2D, fragUV);
    } else if (mode == 2) {
        c *= texture(texRect, fragUV);
    } else if (mode == 3) {
        c.a *= texture(tex2D, fragUV).r;
    }
    outColor = vec4(c.rgb, c.a * opacity);
}
` + "\x00"

// overlayVertexCount is the vertex count of one nine-slice draw.
const overlayVertexCount = 9 * 6
